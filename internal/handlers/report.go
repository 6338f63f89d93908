// internal/handlers/report.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/POSTANYIDEAS/Ecommerce/internal/services"
	"github.com/POSTANYIDEAS/Ecommerce/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GET /reports/daily-sales?days=7
func (h *ReportHandler) DailySales(c *gin.Context) {
	days := intQuery(c, "days", 7)

	rows, err := h.reportService.DailySales(c.Request.Context(), days)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /reports/monthly-sales
func (h *ReportHandler) MonthlySales(c *gin.Context) {
	rows, err := h.reportService.MonthlySales(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /reports/top-users?limit=10
func (h *ReportHandler) TopUsers(c *gin.Context) {
	rows, err := h.reportService.TopUsers(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /reports/product-sales?limit=10
func (h *ReportHandler) ProductSales(c *gin.Context) {
	rows, err := h.reportService.ProductSales(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /reports/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reportService.Summary(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, summary)
}

// GET /reports/recent-orders?limit=20
func (h *ReportHandler) RecentOrders(c *gin.Context) {
	rows, err := h.reportService.RecentOrders(c.Request.Context(), intQuery(c, "limit", 20))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /reports/revenue-by-date?start_date=2026-01-01&end_date=2026-01-31
func (h *ReportHandler) RevenueByDate(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		utils.BadRequestResponse(c, "start_date must be YYYY-MM-DD", nil)
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		utils.BadRequestResponse(c, "end_date must be YYYY-MM-DD", nil)
		return
	}

	rows, err := h.reportService.RevenueByDateRange(c.Request.Context(), start, end)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
