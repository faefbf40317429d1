package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/clinic/backend/internal/application/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves xlsx register downloads
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SalesRegister downloads the sales register for a date range
// GET /api/v1/reports/sales?start_date=2025-04-01&end_date=2026-03-31
func (h *ReportHandler) SalesRegister(c *gin.Context) {
	buf, err := h.reportService.SalesRegister(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendWorkbook(c, "sales-register", buf.Bytes())
}

// PurchaseRegister downloads the purchase register for a date range
// GET /api/v1/reports/purchases?start_date=2025-04-01&end_date=2026-03-31
func (h *ReportHandler) PurchaseRegister(c *gin.Context) {
	buf, err := h.reportService.PurchaseRegister(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendWorkbook(c, "purchase-register", buf.Bytes())
}

// StockSummary downloads the current stock snapshot
// GET /api/v1/reports/stock
func (h *ReportHandler) StockSummary(c *gin.Context) {
	buf, err := h.reportService.StockSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendWorkbook(c, "stock-summary", buf.Bytes())
}

func (h *ReportHandler) sendWorkbook(c *gin.Context, name string, content []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}
