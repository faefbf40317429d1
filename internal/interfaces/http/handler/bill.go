package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/clinic/backend/internal/application/billing"
)

// BillHandler handles bill number issuance for non-pharmacy billing
// (consultation, therapy and prakriti bills). Sale bill numbers are minted
// inside the sale flow instead.
type BillHandler struct {
	BaseHandler
	billService *billingapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billingapp.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Issue mints the next bill number for a category
// POST /api/v1/bills/issue
func (h *BillHandler) Issue(c *gin.Context) {
	var req billingapp.IssueBillNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	response, err := h.billService.IssueBillNumber(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, response)
}

// Preview shows the next bill number without claiming it
// GET /api/v1/bills/preview?category=consultation
func (h *BillHandler) Preview(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		h.BadRequest(c, "Query parameter 'category' is required")
		return
	}

	response, err := h.billService.PreviewBillNumber(c.Request.Context(), category)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}
