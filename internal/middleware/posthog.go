package middleware

import (
	"net/http"

	"github.com/SscSPs/general_ledger/internal/utils/analytics"
	"github.com/gin-gonic/gin"
)

// ledgerEvents maps successful routes to analytics event names. Routes not
// listed here (reads, health, docs) are not tracked.
var ledgerEvents = map[string]string{
	http.MethodPost + " /api/v1/tenants/:tenant_id/entries":                   "ledger_entry_posted",
	http.MethodPost + " /api/v1/tenants/:tenant_id/entries/:entry_id/reverse": "ledger_entry_reversed",
	http.MethodPost + " /api/v1/tenants/:tenant_id/drafts":                    "ledger_draft_created",
	http.MethodPut + " /api/v1/tenants/:tenant_id/drafts/:entry_id":           "ledger_draft_updated",
	http.MethodDelete + " /api/v1/tenants/:tenant_id/drafts/:entry_id":        "ledger_draft_deleted",
	http.MethodPost + " /api/v1/tenants/:tenant_id/drafts/:entry_id/post":     "ledger_draft_posted",
	http.MethodGet + " /api/v1/tenants/:tenant_id/trial-balance":              "ledger_trial_balance_viewed",
}

// PosthogMiddleware records a product event for each successful ledger write.
func PosthogMiddleware(posthogClient *analytics.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !posthogClient.IsInitialized() || len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		event, ok := ledgerEvents[c.Request.Method+" "+c.FullPath()]
		if !ok {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		props := map[string]any{"status_code": c.Writer.Status()}
		if entryID := c.Param("entry_id"); entryID != "" {
			props["entry_id"] = entryID
		}
		posthogClient.Enqueue(userID, c.Param("tenant_id"), event, props)
	}
}
