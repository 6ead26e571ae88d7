package controllers

import (
	"bytes"
	"net/http"

	"github.com/dendyfood/dendyfood-api/initializers"
	"github.com/dendyfood/dendyfood-api/middlewares"
	"github.com/dendyfood/dendyfood-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 10 << 20

// UploadImage stores the multipart "image" file as a resized JPEG and returns its public URL.
func UploadImage(ctx *gin.Context) {
	if Images == nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Image storage is not configured")
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No image uploaded", err)
		return
	}
	if file.Size > maxUploadSize {
		sendErrorResponse(ctx, http.StatusBadRequest, "Image is too large")
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Unable to read image", err)
		return
	}
	defer f.Close()

	data, err := utils.ShrinkImage(f, initializers.Cfg.ImageMaxWidth)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Unsupported image", err)
		return
	}

	key := uuid.NewString() + ".jpg"
	url, err := Images.Save(ctx.Request.Context(), key, "image/jpeg", bytes.NewReader(data))
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to upload image", err)
		return
	}

	log.Info().Str("key", key).Str("admin", ctx.GetString(middlewares.AdminKey)).Msg("image uploaded")
	ctx.JSON(http.StatusOK, gin.H{"url": url})
}
