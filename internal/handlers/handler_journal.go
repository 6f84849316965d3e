package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	idempotencyKeyHeader  = "Idempotency-Key"
	maxIdempotencyKeySize = 128
)

// journalHandler handles HTTP requests for entries and drafts.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	scale          int32
}

func newJournalHandler(journalService portssvc.JournalSvcFacade, scale int32) *journalHandler {
	return &journalHandler{journalService: journalService, scale: scale}
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Validates and posts a balanced entry. Repeating a request with the same Idempotency-Key returns the entry created by the first one.
// @Tags entries
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param Idempotency-Key header string false "Client supplied key"
// @Param entry body dto.CreateEntryRequest true "Entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "Ledger busy, retry"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/entries [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	key := c.GetHeader(idempotencyKeyHeader)
	if len(key) > maxIdempotencyKeySize {
		badRequest(c, "Idempotency-Key is too long", nil)
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), c.Param("tenant_id"), req, key, userID)
	if err != nil {
		respondError(c, err, "post entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry, h.scale))
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags entries
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/entries/{entry_id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("tenant_id"), c.Param("entry_id"))
	if err != nil {
		respondError(c, err, "retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry, h.scale))
}

// listEntries godoc
// @Summary List journal entries
// @Description Newest first, paginated with nextToken.
// @Tags entries
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param limit query int false "Page size (1-100)"
// @Param nextToken query string false "Token from the previous page"
// @Param status query string false "DRAFT, POSTED or REVERSED"
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	resp, err := h.journalService.ListEntries(c.Request.Context(), c.Param("tenant_id"), params)
	if err != nil {
		respondError(c, err, "list entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Posts the mirror image of the entry and links the two.
// @Tags entries
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param entry_id path string true "Entry ID"
// @Param body body dto.ReverseEntryRequest false "Reversal date, defaults to today"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 409 {object} dto.ErrorResponse "Already reversed or not posted"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/entries/{entry_id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.ReverseEntryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request format", err)
			return
		}
	}
	reversalDate := time.Now().UTC()
	if req.ReversalDate != "" {
		// Format already checked by the ledger_date binding rule.
		reversalDate, _ = time.Parse(dto.DateLayout, req.ReversalDate)
	}

	entryID := c.Param("entry_id")
	reversal, err := h.journalService.Reverse(c.Request.Context(), c.Param("tenant_id"), entryID, reversalDate, userID)
	if err != nil {
		respondError(c, err, "reverse entry")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Entry reversed",
		slog.String("entry_id", entryID), slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal, h.scale))
}

// createDraft godoc
// @Summary Stage a draft entry
// @Description Drafts are not validated for balance until they are posted.
// @Tags drafts
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param entry body dto.CreateEntryRequest true "Draft"
// @Success 201 {object} dto.JournalEntryResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/drafts [post]
func (h *journalHandler) createDraft(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	draft, err := h.journalService.CreateDraft(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondError(c, err, "create draft")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(draft, h.scale))
}

// updateDraft godoc
// @Summary Replace a draft entry
// @Tags drafts
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param entry_id path string true "Draft ID"
// @Param entry body dto.CreateEntryRequest true "Draft"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 403 {object} dto.ErrorResponse "Not the draft's creator"
// @Failure 409 {object} dto.ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/drafts/{entry_id} [put]
func (h *journalHandler) updateDraft(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	draft, err := h.journalService.UpdateDraft(c.Request.Context(), c.Param("tenant_id"), c.Param("entry_id"), req, userID)
	if err != nil {
		respondError(c, err, "update draft")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(draft, h.scale))
}

// deleteDraft godoc
// @Summary Discard a draft entry
// @Tags drafts
// @Param tenant_id path string true "Tenant ID"
// @Param entry_id path string true "Draft ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/drafts/{entry_id} [delete]
func (h *journalHandler) deleteDraft(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.journalService.DeleteDraft(c.Request.Context(), c.Param("tenant_id"), c.Param("entry_id"), userID); err != nil {
		respondError(c, err, "delete draft")
		return
	}
	c.Status(http.StatusNoContent)
}

// postDraft godoc
// @Summary Post a staged draft
// @Tags drafts
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param entry_id path string true "Draft ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/drafts/{entry_id}/post [post]
func (h *journalHandler) postDraft(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	entry, err := h.journalService.PostDraft(c.Request.Context(), c.Param("tenant_id"), c.Param("entry_id"), userID)
	if err != nil {
		respondError(c, err, "post draft")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry, h.scale))
}

// RegisterJournalRoutes registers entry and draft routes on a tenant-scoped group.
func RegisterJournalRoutes(tenant *gin.RouterGroup, journalService portssvc.JournalSvcFacade, scale int32) {
	h := newJournalHandler(journalService, scale)

	entries := tenant.Group("/entries")
	{
		entries.POST("", h.postEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entry_id", h.getEntry)
		entries.POST("/:entry_id/reverse", h.reverseEntry)
	}

	drafts := tenant.Group("/drafts")
	{
		drafts.POST("", h.createDraft)
		drafts.PUT("/:entry_id", h.updateDraft)
		drafts.DELETE("/:entry_id", h.deleteDraft)
		drafts.POST("/:entry_id/post", h.postDraft)
	}
}
