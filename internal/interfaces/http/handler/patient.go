package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	patientapp "github.com/clinic/backend/internal/application/patient"
)

// PatientHandler handles patient registry endpoints
type PatientHandler struct {
	BaseHandler
	patientService *patientapp.PatientService
}

// NewPatientHandler creates a new PatientHandler
func NewPatientHandler(patientService *patientapp.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// Register creates a patient under the next registration code
// POST /api/v1/patients
func (h *PatientHandler) Register(c *gin.Context) {
	var req patientapp.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	response, err := h.patientService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, response)
}

// Update edits a patient's registration details
// PUT /api/v1/patients/:code
func (h *PatientHandler) Update(c *gin.Context) {
	var req patientapp.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	response, err := h.patientService.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// AddVisit appends a consultation record
// POST /api/v1/patients/:code/visits
func (h *PatientHandler) AddVisit(c *gin.Context) {
	var req patientapp.AddVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	response, err := h.patientService.AddVisit(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, response)
}

// GetByCode retrieves a patient with visit history
// GET /api/v1/patients/:code
func (h *PatientHandler) GetByCode(c *gin.Context) {
	response, err := h.patientService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// Search finds patients by name or phone fragment
// GET /api/v1/patients/search?q=shar
func (h *PatientHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.BadRequest(c, "Query parameter 'q' is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	responses, err := h.patientService.Search(c.Request.Context(), query, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// List retrieves patients with filtering and pagination
// GET /api/v1/patients
func (h *PatientHandler) List(c *gin.Context) {
	var filter patientapp.PatientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	responses, total, err := h.patientService.List(c.Request.Context(), filter)
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
