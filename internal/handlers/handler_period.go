package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/dto"
	"github.com/bukubesar/bukubesar/internal/middleware"
)

// periodHandler handles HTTP requests for fiscal periods.
type periodHandler struct {
	periodService portssvc.FiscalPeriodSvcFacade
}

func newPeriodHandler(periodService portssvc.FiscalPeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: periodService}
}

func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.FiscalPeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/fiscal-periods")
	{
		periods.POST("", middleware.RequireActor(), h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/lock", middleware.RequireActor(), h.lockPeriod)
		periods.POST("/:periodID/unlock", middleware.RequireActor(), h.unlockPeriod)
		periods.POST("/:periodID/close", middleware.RequireActor(), h.closePeriod)
		periods.POST("/:periodID/reopen", middleware.RequireActor(), h.reopenPeriod)
	}
}

// createPeriod godoc
// @Summary Create a fiscal period
// @Description Periods must not overlap existing ones
// @Tags fiscal-periods
// @Accept  json
// @Produce  json
// @Param   period body dto.CreateFiscalPeriodRequest true "Period details"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 201 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Invalid or overlapping range"
// @Router /fiscal-periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFiscalPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	actor, _ := middleware.GetActorFromContext(c)
	period, err := h.periodService.CreatePeriod(c.Request.Context(), req, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to create fiscal period", slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, dto.ToFiscalPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Tags fiscal-periods
// @Produce  json
// @Success 200 {array} dto.FiscalPeriodResponse
// @Router /fiscal-periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list fiscal periods", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponses(periods))
}

// getPeriod godoc
// @Summary Get a fiscal period
// @Tags fiscal-periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Router /fiscal-periods/{periodID} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	period, err := h.periodService.GetPeriodByID(c.Request.Context(), periodID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to get fiscal period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

func (h *periodHandler) transition(c *gin.Context, op func(string, string) (*dto.FiscalPeriodResponse, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	actor, _ := middleware.GetActorFromContext(c)
	resp, err := op(periodID, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Fiscal period transition failed", slog.String("error", err.Error()), slog.String("period_id", periodID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// lockPeriod godoc
// @Summary Lock a fiscal period against postings
// @Tags fiscal-periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 409 {object} map[string]string "Period is closed"
// @Router /fiscal-periods/{periodID}/lock [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	h.transition(c, func(periodID, actor string) (*dto.FiscalPeriodResponse, error) {
		period, err := h.periodService.LockPeriod(c.Request.Context(), periodID, actor)
		if err != nil {
			return nil, err
		}
		resp := dto.ToFiscalPeriodResponse(period)
		return &resp, nil
	})
}

// unlockPeriod godoc
// @Summary Unlock a fiscal period
// @Tags fiscal-periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 409 {object} map[string]string "Period is closed"
// @Router /fiscal-periods/{periodID}/unlock [post]
func (h *periodHandler) unlockPeriod(c *gin.Context) {
	h.transition(c, func(periodID, actor string) (*dto.FiscalPeriodResponse, error) {
		period, err := h.periodService.UnlockPeriod(c.Request.Context(), periodID, actor)
		if err != nil {
			return nil, err
		}
		resp := dto.ToFiscalPeriodResponse(period)
		return &resp, nil
	})
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Refused while draft entries remain in the range or the trial balance does not close
// @Tags fiscal-periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 409 {object} map[string]string "Drafts remain or already closed"
// @Failure 500 {object} map[string]string "Trial balance integrity breach"
// @Router /fiscal-periods/{periodID}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	h.transition(c, func(periodID, actor string) (*dto.FiscalPeriodResponse, error) {
		period, err := h.periodService.ClosePeriod(c.Request.Context(), periodID, actor)
		if err != nil {
			return nil, err
		}
		resp := dto.ToFiscalPeriodResponse(period)
		return &resp, nil
	})
}

// reopenPeriod godoc
// @Summary Reopen a closed fiscal period
// @Description The period returns to locked-but-open; unlock it to accept postings again
// @Tags fiscal-periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 409 {object} map[string]string "Period is not closed"
// @Router /fiscal-periods/{periodID}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	h.transition(c, func(periodID, actor string) (*dto.FiscalPeriodResponse, error) {
		period, err := h.periodService.ReopenPeriod(c.Request.Context(), periodID, actor)
		if err != nil {
			return nil, err
		}
		resp := dto.ToFiscalPeriodResponse(period)
		return &resp, nil
	})
}
