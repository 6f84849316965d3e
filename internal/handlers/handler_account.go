package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// accountHandler serves the chart of accounts and per-account balances.
type accountHandler struct {
	accountService   portssvc.AccountSvc
	reportingService portssvc.ReportingService
	scale            int32
}

// listAccounts godoc
// @Summary List the tenant's chart of accounts
// @Tags accounts
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		respondError(c, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Balance on the account's normal side from committed entries, optionally as of a date (inclusive).
// @Tags accounts
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param account_id path string true "Account ID"
// @Param asOf query string false "YYYY-MM-DD"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{account_id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	var asOf *time.Time
	if raw := c.Query("asOf"); raw != "" {
		t, err := time.Parse(dto.DateLayout, raw)
		if err != nil {
			badRequest(c, "Invalid asOf date, expected YYYY-MM-DD", nil)
			return
		}
		asOf = &t
	}

	balance, err := h.reportingService.AccountBalance(c.Request.Context(), c.Param("tenant_id"), c.Param("account_id"), asOf)
	if err != nil {
		respondError(c, err, "calculate account balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance, h.scale))
}

// RegisterAccountRoutes registers account routes on a tenant-scoped group.
func RegisterAccountRoutes(tenant *gin.RouterGroup, accountService portssvc.AccountSvc, reportingService portssvc.ReportingService, scale int32) {
	h := &accountHandler{accountService: accountService, reportingService: reportingService, scale: scale}

	accounts := tenant.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:account_id/balance", h.getAccountBalance)
	}
}
