package handlers

import (
	"github.com/gin-gonic/gin"

	"procura/internal/domain/catalogs/vendor"
	"procura/internal/infrastructure/http/v1/dto"
)

// VendorHandler handles vendor catalog endpoints.
type VendorHandler struct {
	*BaseHandler
	service *vendor.Service
}

// NewVendorHandler creates a new vendor handler.
func NewVendorHandler(base *BaseHandler, service *vendor.Service) *VendorHandler {
	return &VendorHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers vendor routes.
func (h *VendorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create creates a new vendor.
// POST /api/v1/catalog/vendors
func (h *VendorHandler) Create(c *gin.Context) {
	var req dto.CreateVendorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	v := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), v); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, v.ID)
}

// GetByID retrieves a vendor.
// GET /api/v1/catalog/vendors/:id
func (h *VendorHandler) GetByID(c *gin.Context) {
	vendorID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), vendorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromVendor(v))
}

// Update updates a vendor.
// PUT /api/v1/catalog/vendors/:id
func (h *VendorHandler) Update(c *gin.Context) {
	vendorID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateVendorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), vendorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(v)
	if err := h.service.Update(c.Request.Context(), v); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromVendor(v))
}

// Delete soft-deletes a vendor.
// DELETE /api/v1/catalog/vendors/:id
func (h *VendorHandler) Delete(c *gin.Context) {
	vendorID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), vendorID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List retrieves vendors with filtering.
// GET /api/v1/catalog/vendors
func (h *VendorHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.service.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, dto.FromVendors(result.Items)))
}
