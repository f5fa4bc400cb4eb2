package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/dto"
	"github.com/bukubesar/bukubesar/internal/middleware"
)

// documentHandler handles HTTP requests for contacts, invoices, bills and
// payments, including their posting endpoints.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
	postingService  portssvc.PostingSvcFacade
}

func newDocumentHandler(documentService portssvc.DocumentSvcFacade, postingService portssvc.PostingSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: documentService,
		postingService:  postingService,
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, postingService portssvc.PostingSvcFacade) {
	h := newDocumentHandler(documentService, postingService)

	contacts := rg.Group("/contacts")
	{
		contacts.POST("", middleware.RequireActor(), h.createContact)
	}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", middleware.RequireActor(), h.createInvoice)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.POST("/:invoiceID/post", middleware.RequireActor(), h.postInvoice)
	}

	bills := rg.Group("/bills")
	{
		bills.POST("", middleware.RequireActor(), h.createBill)
		bills.GET("/:billID", h.getBill)
		bills.POST("/:billID/post", middleware.RequireActor(), h.postBill)
	}

	payments := rg.Group("/payments")
	{
		payments.POST("", middleware.RequireActor(), h.createPayment)
		payments.GET("/:paymentID", h.getPayment)
		payments.POST("/:paymentID/post", middleware.RequireActor(), h.postPayment)
	}
}

// createContact godoc
// @Summary Create a customer or vendor contact
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   contact body dto.CreateContactRequest true "Contact details"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 201 {object} domain.Contact
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /contacts [post]
func (h *documentHandler) createContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createContact", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	actor, _ := middleware.GetActorFromContext(c)
	contact, err := h.documentService.CreateContact(c.Request.Context(), req, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to create contact", slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// createInvoice godoc
// @Summary Create a draft sales invoice
// @Description No journal entry exists until the invoice is posted
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /invoices [post]
func (h *documentHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	actor, _ := middleware.GetActorFromContext(c)
	invoice, err := h.documentService.CreateInvoice(c.Request.Context(), req, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to create invoice", slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags documents
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Router /invoices/{invoiceID} [get]
func (h *documentHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	invoice, err := h.documentService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to get invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// postInvoice godoc
// @Summary Post an invoice to the journal
// @Description Dr receivable / Cr revenue / Cr tax payable, atomically with the status flip
// @Tags documents
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 201 {object} dto.JournalEntryResponse "The posted entry"
// @Failure 409 {object} map[string]string "Already posted or period locked"
// @Router /invoices/{invoiceID}/post [post]
func (h *documentHandler) postInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	actor, _ := middleware.GetActorFromContext(c)
	entry, err := h.postingService.PostInvoice(c.Request.Context(), invoiceID, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to post invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// createBill godoc
// @Summary Create a draft purchase bill
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   bill body dto.CreateBillRequest true "Bill details"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /bills [post]
func (h *documentHandler) createBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	actor, _ := middleware.GetActorFromContext(c)
	bill, err := h.documentService.CreateBill(c.Request.Context(), req, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to create bill", slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// getBill godoc
// @Summary Get a bill
// @Tags documents
// @Produce  json
// @Param   billID path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 404 {object} map[string]string "Bill not found"
// @Router /bills/{billID} [get]
func (h *documentHandler) getBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("billID")

	bill, err := h.documentService.GetBillByID(c.Request.Context(), billID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to get bill", slog.String("error", err.Error()), slog.String("bill_id", billID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

// postBill godoc
// @Summary Post a bill to the journal
// @Description Dr purchases / Dr tax receivable / Cr payable, atomically with the status flip
// @Tags documents
// @Produce  json
// @Param   billID path string true "Bill ID"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 201 {object} dto.JournalEntryResponse "The posted entry"
// @Failure 409 {object} map[string]string "Already posted or period locked"
// @Router /bills/{billID}/post [post]
func (h *documentHandler) postBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("billID")

	actor, _ := middleware.GetActorFromContext(c)
	entry, err := h.postingService.PostBill(c.Request.Context(), billID, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to post bill", slog.String("error", err.Error()), slog.String("bill_id", billID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// createPayment godoc
// @Summary Record a payment against an invoice or bill
// @Description Overpayment beyond the outstanding amount is rejected
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid request or overpayment"
// @Router /payments [post]
func (h *documentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	actor, _ := middleware.GetActorFromContext(c)
	payment, err := h.documentService.CreatePayment(c.Request.Context(), req, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to create payment", slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// getPayment godoc
// @Summary Get a payment
// @Tags documents
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Router /payments/{paymentID} [get]
func (h *documentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	payment, err := h.documentService.GetPaymentByID(c.Request.Context(), paymentID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to get payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// postPayment godoc
// @Summary Post a payment to the journal
// @Description RECEIVE is Dr cash / Cr receivable, PAY is Dr payable / Cr cash; the settled document updates atomically
// @Tags documents
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Param   X-Actor-ID header string true "Acting user for audit fields"
// @Success 201 {object} dto.JournalEntryResponse "The posted entry"
// @Failure 400 {object} map[string]string "Overpayment"
// @Failure 409 {object} map[string]string "Already posted or period locked"
// @Router /payments/{paymentID}/post [post]
func (h *documentHandler) postPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	actor, _ := middleware.GetActorFromContext(c)
	entry, err := h.postingService.PostPayment(c.Request.Context(), paymentID, actor)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to post payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		c.JSON(status, gin.H{"error": clientMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}
