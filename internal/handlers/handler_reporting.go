package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/middleware"
)

// reportingHandler handles HTTP requests for financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/cash-flow", h.cashFlow)
		reports.GET("/equity-statement", h.equityStatement)
		reports.GET("/receivable-aging", h.receivableAging)
		reports.GET("/payable-aging", h.payableAging)
		reports.GET("/cogs-summary", h.cogsSummary)
	}
}

// asOfReport runs a point-in-time report with the shared asOf parsing.
func (h *reportingHandler) asOfReport(c *gin.Context, name string, run func(time.Time) (any, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := parseDateParam(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}

	report, err := run(asOf)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to build report", slog.String("report", name), slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, report)
}

// rangeReport runs a period report with the shared startDate/endDate parsing.
func (h *reportingHandler) rangeReport(c *gin.Context, name string, run func(start, end time.Time) (any, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

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

	report, err := run(start, end)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to build report", slog.String("report", name), slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, report)
}

// trialBalance godoc
// @Summary Trial balance as of a date
// @Description Every account's net balance with totals; isBalanced reports the debit/credit closure
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD, default today)"
// @Success 200 {object} domain.TrialBalanceReport
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	h.asOfReport(c, "trial-balance", func(asOf time.Time) (any, error) {
		return h.reportingService.TrialBalance(c.Request.Context(), asOf)
	})
}

// balanceSheet godoc
// @Summary Balance sheet as of a date
// @Description Fails with 500 when assets do not equal liabilities plus equity
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD, default today)"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 500 {object} map[string]string "Accounting equation breach"
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	h.asOfReport(c, "balance-sheet", func(asOf time.Time) (any, error) {
		return h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	})
}

// incomeStatement godoc
// @Summary Income statement over a date range
// @Tags reports
// @Produce  json
// @Param   startDate query string true "Range start (YYYY-MM-DD)"
// @Param   endDate query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} domain.IncomeStatementReport
// @Router /reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	h.rangeReport(c, "income-statement", func(start, end time.Time) (any, error) {
		return h.reportingService.IncomeStatement(c.Request.Context(), start, end)
	})
}

// cashFlow godoc
// @Summary Cash flow statement over a date range
// @Tags reports
// @Produce  json
// @Param   startDate query string true "Range start (YYYY-MM-DD)"
// @Param   endDate query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} domain.CashFlowReport
// @Router /reports/cash-flow [get]
func (h *reportingHandler) cashFlow(c *gin.Context) {
	h.rangeReport(c, "cash-flow", func(start, end time.Time) (any, error) {
		return h.reportingService.CashFlow(c.Request.Context(), start, end)
	})
}

// equityStatement godoc
// @Summary Statement of changes in equity over a date range
// @Tags reports
// @Produce  json
// @Param   startDate query string true "Range start (YYYY-MM-DD)"
// @Param   endDate query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} domain.EquityStatementReport
// @Router /reports/equity-statement [get]
func (h *reportingHandler) equityStatement(c *gin.Context) {
	h.rangeReport(c, "equity-statement", func(start, end time.Time) (any, error) {
		return h.reportingService.EquityStatement(c.Request.Context(), start, end)
	})
}

// receivableAging godoc
// @Summary Receivable aging as of a date
// @Description Outstanding invoices bucketed by days overdue, grouped by customer
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD, default today)"
// @Success 200 {object} domain.AgingReport
// @Router /reports/receivable-aging [get]
func (h *reportingHandler) receivableAging(c *gin.Context) {
	h.asOfReport(c, "receivable-aging", func(asOf time.Time) (any, error) {
		return h.reportingService.ReceivableAging(c.Request.Context(), asOf)
	})
}

// payableAging godoc
// @Summary Payable aging as of a date
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD, default today)"
// @Success 200 {object} domain.AgingReport
// @Router /reports/payable-aging [get]
func (h *reportingHandler) payableAging(c *gin.Context) {
	h.asOfReport(c, "payable-aging", func(asOf time.Time) (any, error) {
		return h.reportingService.PayableAging(c.Request.Context(), asOf)
	})
}

// cogsSummary godoc
// @Summary Cost of goods sold over a date range
// @Description Beginning inventory + purchases - ending inventory; a zero-movement period yields all zeros
// @Tags reports
// @Produce  json
// @Param   startDate query string true "Range start (YYYY-MM-DD)"
// @Param   endDate query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} domain.CogsSummaryReport
// @Router /reports/cogs-summary [get]
func (h *reportingHandler) cogsSummary(c *gin.Context) {
	h.rangeReport(c, "cogs-summary", func(start, end time.Time) (any, error) {
		return h.reportingService.CogsSummary(c.Request.Context(), start, end)
	})
}
