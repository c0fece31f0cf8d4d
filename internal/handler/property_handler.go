package handler

import (
	"net/http"
	"strconv"

	"github.com/digitup/immo-api/internal/middleware"
	"github.com/digitup/immo-api/internal/models"
	"github.com/digitup/immo-api/internal/policy"
	"github.com/digitup/immo-api/internal/repository"
	"github.com/digitup/immo-api/internal/response"
	"github.com/digitup/immo-api/internal/service"
	"github.com/digitup/immo-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PropertyHandler struct {
	propertyService *service.PropertyService
	store           *storage.LocalStore
}

func NewPropertyHandler(propertyService *service.PropertyService, store *storage.LocalStore) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		store:           store,
	}
}

type PropertyRequest struct {
	Type         string   `json:"type" binding:"required,oneof=Appartement Villa Terrain Studio Duplex"`
	Rooms        *int     `json:"rooms" binding:"omitempty,gt=0"`
	Surface      float64  `json:"surface" binding:"required,gt=0"`
	Price        *float64 `json:"price" binding:"required,gte=0"`
	City         string   `json:"city" binding:"required,max=255"`
	Neighborhood string   `json:"neighborhood" binding:"omitempty,max=255"`
	Description  string   `json:"description" binding:"required"`
	Status       string   `json:"status" binding:"required,oneof=disponible vendu location"`
	Published    bool     `json:"published"`
}

func (r *PropertyRequest) toInput() service.PropertyInput {
	return service.PropertyInput{
		Type:         models.PropertyType(r.Type),
		Rooms:        r.Rooms,
		Surface:      r.Surface,
		Price:        *r.Price,
		City:         r.City,
		Neighborhood: r.Neighborhood,
		Description:  r.Description,
		Status:       models.PropertyStatus(r.Status),
		Published:    r.Published,
	}
}

// GET /api/properties
func (h *PropertyHandler) Index(c *gin.Context) {
	filter := repository.PropertyFilter{
		City:   c.Query("city"),
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filter.MaxPrice = &v
	}
	// Non-numeric or non-positive per_page falls back to the default
	if v, err := strconv.Atoi(c.Query("per_page")); err == nil && v > 0 {
		filter.PerPage = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		filter.Page = v
	}

	page, err := h.propertyService.List(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list properties")
		return
	}

	properties := make([]gin.H, 0, len(page.Properties))
	for i := range page.Properties {
		properties = append(properties, h.propertyResource(&page.Properties[i]))
	}

	response.OK(c, http.StatusOK, "", gin.H{
		"properties": properties,
		"meta": gin.H{
			"current_page": page.CurrentPage,
			"per_page":     page.PerPage,
			"total":        page.Total,
			"last_page":    page.LastPage,
		},
	})
}

// GET /api/properties/:id
func (h *PropertyHandler) Show(c *gin.Context) {
	property, ok := h.findProperty(c)
	if !ok {
		return
	}

	response.OK(c, http.StatusOK, "", h.propertyResource(property))
}

// POST /api/properties
func (h *PropertyHandler) Store(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	if !policy.CanCreate(claims.Role) {
		response.Error(c, http.StatusForbidden, "This action is unauthorized")
		return
	}

	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, response.BindingErrors(err))
		return
	}

	property, err := h.propertyService.Create(req.toInput(), claims.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to create property")
		return
	}

	response.OK(c, http.StatusCreated, "Bien immobilier créé avec succès", h.propertyResource(property))
}

// PUT /api/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	property, ok := h.findProperty(c)
	if !ok {
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

	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, response.BindingErrors(err))
		return
	}

	updated, err := h.propertyService.Update(property, req.toInput())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to update property")
		return
	}

	response.OK(c, http.StatusOK, "Bien immobilier mis à jour avec succès", h.propertyResource(updated))
}

// DELETE /api/properties/:id
func (h *PropertyHandler) Destroy(c *gin.Context) {
	property, ok := h.findProperty(c)
	if !ok {
		return
	}

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	if !policy.CanDelete(claims.Role, claims.UserID, property.UserID) {
		response.Error(c, http.StatusForbidden, "This action is unauthorized")
		return
	}

	if err := h.propertyService.Delete(property); err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to delete property")
		return
	}

	response.OK(c, http.StatusOK, "Bien immobilier supprimé avec succès", nil)
}

// findProperty resolves the :id parameter. A malformed ID and a missing or
// soft-deleted row both read as "not found".
func (h *PropertyHandler) findProperty(c *gin.Context) (*models.Property, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Bien immobilier non trouvé")
		return nil, false
	}

	property, err := h.propertyService.GetByID(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load property")
		return nil, false
	}
	if property == nil {
		response.Error(c, http.StatusNotFound, "Bien immobilier non trouvé")
		return nil, false
	}

	return property, true
}

func (h *PropertyHandler) propertyResource(p *models.Property) gin.H {
	images := make([]gin.H, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, gin.H{
			"id":         img.ID,
			"path":       h.store.PublicURL(img.Path),
			"created_at": img.CreatedAt,
		})
	}

	return gin.H{
		"id":           p.ID,
		"title":        p.Title,
		"type":         p.Type,
		"rooms":        p.Rooms,
		"surface":      p.Surface,
		"price":        p.Price,
		"city":         p.City,
		"neighborhood": p.Neighborhood,
		"description":  p.Description,
		"status":       p.Status,
		"published":    p.Published,
		"user": gin.H{
			"id":   p.User.ID,
			"name": p.User.Name,
			"role": p.User.Role,
		},
		"images":     images,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}
