package handler

import (
	"errors"
	"net/http"

	"github.com/digitup/immo-api/internal/middleware"
	"github.com/digitup/immo-api/internal/policy"
	"github.com/digitup/immo-api/internal/response"
	"github.com/digitup/immo-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ImageHandler struct {
	propertyService *service.PropertyService
	imageService    *service.ImageService
}

func NewImageHandler(propertyService *service.PropertyService, imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{
		propertyService: propertyService,
		imageService:    imageService,
	}
}

// POST /api/properties/:id/images
// Uploading images requires the same permission as editing the property.
func (h *ImageHandler) Upload(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Bien immobilier non trouvé")
		return
	}

	property, err := h.propertyService.GetByID(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load property")
		return
	}
	if property == nil {
		response.Error(c, http.StatusNotFound, "Bien immobilier non trouvé")
		return
	}

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	if !policy.CanUpdate(claims.Role, claims.UserID, property.UserID) {
		response.Error(c, http.StatusForbidden, "This action is unauthorized")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.ValidationFailed(c, map[string]string{"images": "Au moins une image est requise"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["images[]"]
	}

	images, err := h.imageService.Upload(property, files)
	if err != nil {
		var fieldErrors service.FieldErrors
		if errors.As(err, &fieldErrors) {
			response.ValidationFailed(c, fieldErrors)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to upload images")
		return
	}

	uploaded := make([]gin.H, 0, len(images))
	for _, img := range images {
		uploaded = append(uploaded, gin.H{
			"id":         img.ID,
			"path":       h.imageService.PublicURL(img.Path),
			"created_at": img.CreatedAt,
		})
	}

	response.OK(c, http.StatusCreated, "Images téléchargées avec succès", uploaded)
}
