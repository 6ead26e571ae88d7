package middlewares

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dendyfood/dendyfood-api/initializers"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const adminRole = "admin"

// AdminKey is the gin context key holding the authenticated admin's username.
const AdminKey = "admin"

var errNotAdmin = errors.New("token does not carry the admin role")

// GenerateAdminToken issues a signed session token for username that expires after ttl.
func GenerateAdminToken(username, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": adminRole,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAdminToken validates the signature, expiry and role of an admin token
// and returns the username it was issued to.
func ParseAdminToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errNotAdmin
	}
	if role, _ := claims["role"].(string); role != adminRole {
		return "", errNotAdmin
	}
	username, err := claims.GetSubject()
	if err != nil || username == "" {
		return "", errNotAdmin
	}
	return username, nil
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required"})
			return
		}

		username, err := ParseAdminToken(tokenString, initializers.Cfg.JWTSecret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		ctx.Set(AdminKey, username)
		ctx.Next()
	}
}
