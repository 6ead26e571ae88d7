package controllers

import (
	"errors"
	"net/http"

	"github.com/dendyfood/dendyfood-api/initializers"
	"github.com/dendyfood/dendyfood-api/middlewares"
	"github.com/dendyfood/dendyfood-api/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	msgInvalidInput          = "invalid input"
	msgInvalidCredentials    = "Invalid credentials"
	msgFailedToGenerateToken = "failed to generate token"
	msgInternalServerError   = "Internal server error"
)

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func findAdminByUsername(username string) (models.AdminUser, error) {
	var admin models.AdminUser
	result := initializers.DB.Where("username = ?", username).First(&admin)
	return admin, result.Error
}

// AdminLogin exchanges admin credentials for a session token. It never creates
// accounts, those come from BootstrapAdmin.
func AdminLogin(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	admin, err := findAdminByUsername(loginData.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		log.Error().Err(err).Msg("admin lookup failed")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := comparePasswords(admin.Password, loginData.Password); err != nil {
		log.Info().Str("username", loginData.Username).Str("ip", ctx.ClientIP()).Msg("failed admin login")
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, expiresAt, err := middlewares.GenerateAdminToken(admin.Username, initializers.Cfg.JWTSecret, initializers.Cfg.JWTTTL)
	if err != nil {
		log.Error().Err(err).Msg("JWT generation error")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":   true,
		"token":     token,
		"expiresAt": expiresAt,
	})
}
