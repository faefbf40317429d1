package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	inventoryapp "github.com/clinic/backend/internal/application/inventory"
)

// MedicineHandler handles pharmacy catalog endpoints
type MedicineHandler struct {
	BaseHandler
	medicineService *inventoryapp.MedicineService
}

// NewMedicineHandler creates a new MedicineHandler
func NewMedicineHandler(medicineService *inventoryapp.MedicineService) *MedicineHandler {
	return &MedicineHandler{medicineService: medicineService}
}

// Create adds a catalog entry
// POST /api/v1/medicines
func (h *MedicineHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	response, err := h.medicineService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, response)
}

// Update edits a catalog entry by code
// PUT /api/v1/medicines/:code
func (h *MedicineHandler) Update(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		h.BadRequest(c, "Invalid medicine code")
		return
	}

	var req inventoryapp.UpdateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	response, err := h.medicineService.Update(c.Request.Context(), code, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// GetByCode retrieves a catalog entry
// GET /api/v1/medicines/:code
func (h *MedicineHandler) GetByCode(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		h.BadRequest(c, "Invalid medicine code")
		return
	}

	response, err := h.medicineService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// List retrieves catalog entries with filtering and pagination
// GET /api/v1/medicines
func (h *MedicineHandler) List(c *gin.Context) {
	var filter inventoryapp.MedicineListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	responses, total, err := h.medicineService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// Suggest returns autosuggest matches for a name prefix
// GET /api/v1/medicines/suggest
func (h *MedicineHandler) Suggest(c *gin.Context) {
	prefix := c.Query("prefix")
	if prefix == "" {
		h.BadRequest(c, "Query parameter 'prefix' is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	responses, err := h.medicineService.Suggest(c.Request.Context(), prefix, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// LowStock lists catalog entries at or below the threshold
// GET /api/v1/medicines/low-stock
func (h *MedicineHandler) LowStock(c *gin.Context) {
	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", "10"))
	if err != nil {
		h.BadRequest(c, "Invalid threshold")
		return
	}

	responses, err := h.medicineService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// AdjustStock applies a manual signed stock correction
// POST /api/v1/medicines/adjust-stock
func (h *MedicineHandler) AdjustStock(c *gin.Context) {
	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	response, err := h.medicineService.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// Delete removes a catalog entry by code
// DELETE /api/v1/medicines/:code
func (h *MedicineHandler) Delete(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		h.BadRequest(c, "Invalid medicine code")
		return
	}

	if err := h.medicineService.Delete(c.Request.Context(), code); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
