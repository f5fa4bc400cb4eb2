package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/dto"
	"github.com/bukubesar/bukubesar/internal/middleware"
)

// journalHandler handles HTTP requests for journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", middleware.RequireActor(), h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", middleware.RequireActor(), h.updateEntry)
		entries.DELETE("/:entryID", middleware.RequireActor(), h.deleteEntry)
		entries.POST("/:entryID/post", middleware.RequireActor(), h.postEntry)
		entries.POST("/:entryID/reverse", middleware.RequireActor(), h.reverseEntry)
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates the balance invariant and persists a draft; nothing is saved when validation fails
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry with lines"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Unbalanced or invalid entry"
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	actor, _ := middleware.GetActorFromContext(c)
	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to create journal entry", slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Returns a page of entries newest first with a cursor token
// @Tags journal-entries
// @Produce  json
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Cursor from the previous page"
// @Param   includeDrafts query bool false "Include unposted entries"
// @Success 200 {object} dto.ListEntriesResponse
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to get journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a draft journal entry
// @Description Posted entries are immutable and return 409
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "Fields to update"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Entry is posted"
// @Router /journal-entries/{entryID} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	actor, _ := middleware.GetActorFromContext(c)
	entry, err := h.journalService.UpdateEntry(c.Request.Context(), entryID, req, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to update journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a draft journal entry
// @Description Posted entries cannot be deleted, only reversed
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 204 "Deleted"
// @Failure 409 {object} map[string]string "Entry is posted"
// @Router /journal-entries/{entryID} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	actor, _ := middleware.GetActorFromContext(c)
	if err := h.journalService.DeleteEntry(c.Request.Context(), entryID, actor); err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to delete journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Makes the entry authoritative; rejected for locked/closed periods and already-posted entries
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Already posted or period locked"
// @Router /journal-entries/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	actor, _ := middleware.GetActorFromContext(c)
	entry, err := h.journalService.PostEntry(c.Request.Context(), entryID, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Creates and posts a mirrored entry; the original is flagged as reversed, never deleted
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Optional reversal date and description"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 201 {object} dto.JournalEntryResponse "The reversing entry"
// @Failure 409 {object} map[string]string "Not posted or already reversed"
// @Router /journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.ReverseJournalEntryRequest
	// The body is optional; an empty request reverses as of today.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for reverseEntry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
			return
		}
	}

	actor, _ := middleware.GetActorFromContext(c)
	reversing, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, req, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to reverse journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversing))
}
