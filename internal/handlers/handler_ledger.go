package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/middleware"
)

// ledgerHandler handles HTTP requests for account balances and ledgers.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/accounts/:accountID")
	{
		ledger.GET("/balance", h.getBalance)
		ledger.GET("/ledger", h.getLedger)
	}
}

const dateLayout = "2006-01-02"

// parseDateParam parses a YYYY-MM-DD query parameter, defaulting to now
// when absent.
func parseDateParam(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ": expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

// getBalance godoc
// @Summary Get an account balance as of a date
// @Description Returns the natural-signed balance over all posted lines dated on or before asOf
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "As-of date (YYYY-MM-DD, default today)"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	asOf, ok := parseDateParam(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}

	balance, err := h.ledgerService.BalanceAsOf(c.Request.Context(), accountID, asOf)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to compute balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accountID": accountID,
		"asOf":      asOf.Format(dateLayout),
		"balance":   balance,
	})
}

// getLedger godoc
// @Summary Get an account's general ledger over a date range
// @Description Opening balance, per-line running balances, closing balance
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   startDate query string true "Range start (YYYY-MM-DD)"
// @Param   endDate query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} domain.GeneralLedger
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	start, ok := parseDateParam(c, "startDate", time.Time{})
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "endDate", time.Now().UTC())
	if !ok {
		return
	}
	if start.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate is required"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate precedes startDate"})
		return
	}

	ledger, err := h.ledgerService.Ledger(c.Request.Context(), accountID, start, end)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to build ledger", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, ledger)
}
