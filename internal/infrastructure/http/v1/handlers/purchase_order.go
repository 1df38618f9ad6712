package handlers

import (
	"github.com/gin-gonic/gin"

	"procura/internal/domain/documents/purchase_order"
	"procura/internal/infrastructure/http/v1/dto"
	"procura/internal/infrastructure/http/v1/middleware"
)

// PurchaseOrderHandler handles purchase order endpoints.
type PurchaseOrderHandler struct {
	*BaseHandler
	service *purchase_order.Service
}

// NewPurchaseOrderHandler creates a new purchase order handler.
func NewPurchaseOrderHandler(base *BaseHandler, service *purchase_order.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers purchase order routes.
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.GET("/number/:number", h.GetByNumber)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/cancel", h.Cancel)
	rg.DELETE("/:id", middleware.RequireRole("admin"), h.Delete)
	rg.GET("/:id/remaining", h.GetRemaining)
	rg.GET("/:id/totals", h.GetTotals)
}

// Create creates a new purchase order.
// POST /api/v1/document/purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, doc.ID)
}

// GetByID retrieves a purchase order with lines.
// GET /api/v1/document/purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(doc))
}

// GetByNumber retrieves a purchase order by document number.
// GET /api/v1/document/purchase-orders/number/:number
func (h *PurchaseOrderHandler) GetByNumber(c *gin.Context) {
	doc, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(doc))
}

// Approve moves a pending order to approved.
// POST /api/v1/document/purchase-orders/:id/approve
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Approve(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(doc))
}

// Cancel moves an untouched order to the terminal cancelled state.
// POST /api/v1/document/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Cancel(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(doc))
}

// Delete soft-deletes an order not referenced by receipts.
// DELETE /api/v1/document/purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// GetRemaining returns outstanding quantities per order line.
// GET /api/v1/document/purchase-orders/:id/remaining
func (h *PurchaseOrderHandler) GetRemaining(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	lines, err := h.service.GetRemaining(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.RemainingResponse{OrderID: docID.String(), Lines: lines})
}

// GetTotals returns the ordered/received/remaining money rollups.
// GET /api/v1/document/purchase-orders/:id/totals
func (h *PurchaseOrderHandler) GetTotals(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	totals, err := h.service.GetTotals(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.TotalsResponse{OrderID: docID.String(), Totals: totals})
}

// List retrieves purchase orders with filtering.
// GET /api/v1/document/purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var query dto.PurchaseOrderListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, dto.FromPurchaseOrders(result.Items)))
}
