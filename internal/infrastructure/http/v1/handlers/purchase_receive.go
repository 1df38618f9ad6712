package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"procura/internal/domain/audit"
	"procura/internal/domain/billing"
	"procura/internal/domain/documents/purchase_receive"
	"procura/internal/infrastructure/http/v1/dto"
)

// historyLimit caps the audit records returned per history request.
const historyLimit = 50

// PurchaseReceiveHandler handles receipt endpoints, including the bill
// projection of a committed receipt and its audit history.
type PurchaseReceiveHandler struct {
	*BaseHandler
	service *purchase_receive.Service
	billing *billing.Service
	history audit.HistoryReader
}

// NewPurchaseReceiveHandler creates a new purchase receive handler.
func NewPurchaseReceiveHandler(base *BaseHandler, service *purchase_receive.Service, billingSvc *billing.Service, history audit.HistoryReader) *PurchaseReceiveHandler {
	return &PurchaseReceiveHandler{BaseHandler: base, service: service, billing: billingSvc, history: history}
}

// RegisterRoutes registers purchase receive routes.
func (h *PurchaseReceiveHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Commit)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.GET("/number/:number", h.GetByNumber)
	rg.GET("/:id/bill", h.GetBill)
	rg.GET("/:id/history", h.GetHistory)
}

// Commit validates and applies a receipt against its order.
// POST /api/v1/document/purchase-receives
func (h *PurchaseReceiveHandler) Commit(c *gin.Context) {
	var req dto.CommitReceiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Commit(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromCommitResult(result))
}

// GetByID retrieves a receipt with lines.
// GET /api/v1/document/purchase-receives/:id
func (h *PurchaseReceiveHandler) GetByID(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseReceive(doc))
}

// GetByNumber retrieves a receipt by document number.
// GET /api/v1/document/purchase-receives/number/:number
func (h *PurchaseReceiveHandler) GetByNumber(c *gin.Context) {
	doc, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseReceive(doc))
}

// GetHistory returns the audit trail of a receipt, newest first.
// GET /api/v1/document/purchase-receives/:id/history
func (h *PurchaseReceiveHandler) GetHistory(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	records, err := h.history.GetEntityHistory(c.Request.Context(), purchase_receive.AuditEntityType, docID, historyLimit)
	if err != nil {
		h.Error(c, err)
		return
	}
	if records == nil {
		records = []audit.Record{}
	}

	h.OK(c, records)
}

// GetBill projects a committed receipt into a bill.
// GET /api/v1/document/purchase-receives/:id/bill
func (h *PurchaseReceiveHandler) GetBill(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	bill, err := h.billing.ProjectBill(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, bill)
}

// List retrieves receipts with filtering.
// GET /api/v1/document/purchase-receives
func (h *PurchaseReceiveHandler) List(c *gin.Context) {
	var query dto.ReceiveListQuery
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

	h.OK(c, dto.NewListResponse(result, dto.FromPurchaseReceives(result.Items)))
}
