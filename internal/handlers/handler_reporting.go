package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type reportingHandler struct {
	reportingService portssvc.ReportingService
	scale            int32
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Debit and credit totals per account for committed entries dated within [start, end].
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param start query string true "YYYY-MM-DD"
// @Param end query string true "YYYY-MM-DD, inclusive"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	start, err := time.Parse(dto.DateLayout, c.Query("start"))
	if err != nil {
		badRequest(c, "Invalid or missing start date, expected YYYY-MM-DD", nil)
		return
	}
	end, err := time.Parse(dto.DateLayout, c.Query("end"))
	if err != nil {
		badRequest(c, "Invalid or missing end date, expected YYYY-MM-DD", nil)
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("tenant_id"), start, end)
	if err != nil {
		respondError(c, err, "generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report, h.scale))
}

// RegisterReportingRoutes registers report routes on a tenant-scoped group.
func RegisterReportingRoutes(tenant *gin.RouterGroup, reportingService portssvc.ReportingService, scale int32) {
	h := &reportingHandler{reportingService: reportingService, scale: scale}
	tenant.GET("/trial-balance", h.getTrialBalance)
}
