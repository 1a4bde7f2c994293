package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnoltman65/commerce-authnet/authnet"
	"github.com/johnoltman65/commerce-authnet/models"
	"github.com/johnoltman65/commerce-authnet/repository"
	"github.com/johnoltman65/commerce-authnet/services"
)

type PaymentController struct {
	Profiles     services.ProfileService
	Transactions services.TransactionService
	Settlements  services.SettlementService
	Payments     repository.PaymentRepository
	Logger       *zap.Logger
}

type addressRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (a addressRequest) toModel() models.Address {
	return models.Address{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Company:    a.Company,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// CreatePaymentMethod stores a tokenized card or echeck payment method.
func (pc *PaymentController) CreatePaymentMethod(c *gin.Context) {
	var req struct {
		OwnerID        string         `json:"owner_id" binding:"required"`
		Kind           string         `json:"kind" binding:"required,oneof=card echeck"`
		DataDescriptor string         `json:"data_descriptor"`
		DataValue      string         `json:"data_value"`
		CustomerEmail  string         `json:"customer_email"`
		Last4          string         `json:"last4"`
		ExpMonth       int            `json:"expiration_month"`
		ExpYear        int            `json:"expiration_year"`
		BillingAddress addressRequest `json:"billing_address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner_id"})
		return
	}

	method := &models.PaymentMethod{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		BillingAddress: req.BillingAddress.toModel(),
	}
	details := services.PaymentDetails{
		DataDescriptor: req.DataDescriptor,
		DataValue:      req.DataValue,
		CustomerEmail:  req.CustomerEmail,
		Last4:          req.Last4,
		ExpMonth:       req.ExpMonth,
		ExpYear:        req.ExpYear,
	}

	if req.Kind == string(models.GatewayKindEcheck) {
		err = pc.Profiles.CreateEcheckPaymentMethod(c.Request.Context(), method, details)
	} else {
		err = pc.Profiles.CreatePaymentMethod(c.Request.Context(), method, details)
	}
	if err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"payment_method_id": method.ID,
		"card_type":         method.CardType,
		"last4":             method.Last4,
		"reusable":          method.Reusable,
		"expires_at":        method.ExpiresAt,
	})
}

// CreatePayment authorizes (and optionally captures) a new payment.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var req struct {
		OrderID         string `json:"order_id" binding:"required"`
		PaymentMethodID string `json:"payment_method_id" binding:"required"`
		Kind            string `json:"kind" binding:"required,oneof=card echeck"`
		Amount          string `json:"amount" binding:"required"`
		Currency        string `json:"currency" binding:"required"`
		Capture         *bool  `json:"capture"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_id"})
		return
	}
	methodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_method_id"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	capture := true
	if req.Capture != nil {
		capture = *req.Capture
	}

	payment := &models.Payment{
		ID:              uuid.New(),
		OrderID:         orderID,
		PaymentMethodID: methodID,
		Kind:            models.GatewayKind(req.Kind),
		Amount:          amount,
		Currency:        req.Currency,
		State:           models.PaymentStateNew,
		RefundedAmount:  decimal.Zero,
	}
	if err := pc.Payments.Create(c.Request.Context(), payment); err != nil {
		pc.respondError(c, err)
		return
	}
	if err := pc.Transactions.AuthorizeAndCapture(c.Request.Context(), payment, capture); err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, paymentResponse(payment))
}

// RefundPayment refunds part or all of a payment.
func (pc *PaymentController) RefundPayment(c *gin.Context) {
	payment, ok := pc.loadPayment(c)
	if !ok {
		return
	}
	var req struct {
		Amount string `json:"amount"`
	}
	// An empty body means a full refund.
	_ = c.ShouldBindJSON(&req)
	var amount *decimal.Decimal
	if req.Amount != "" {
		parsed, err := decimal.NewFromString(req.Amount)
		if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
		amount = &parsed
	}
	if err := pc.Transactions.Refund(c.Request.Context(), payment, amount); err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse(payment))
}

// CapturePayment promotes a pending echeck payment to completed.
func (pc *PaymentController) CapturePayment(c *gin.Context) {
	payment, ok := pc.loadPayment(c)
	if !ok {
		return
	}
	if err := pc.Transactions.CaptureEcheck(c.Request.Context(), payment); err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse(payment))
}

// VoidPayment voids an authorization or a pending echeck payment.
func (pc *PaymentController) VoidPayment(c *gin.Context) {
	payment, ok := pc.loadPayment(c)
	if !ok {
		return
	}
	var err error
	if payment.Kind == models.GatewayKindEcheck {
		err = pc.Transactions.VoidEcheck(c.Request.Context(), payment)
	} else {
		err = pc.Transactions.Void(c.Request.Context(), payment)
	}
	if err != nil {
		pc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse(payment))
}

// Reconcile runs settlement reconciliation over an explicit window and
// returns the payments found settled.
func (pc *PaymentController) Reconcile(c *gin.Context) {
	var req struct {
		From string `json:"from" binding:"required"`
		To   string `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	payments, err := pc.Settlements.GetSettledTransactions(c.Request.Context(), from, to)
	if err != nil {
		pc.respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(payments))
	for i := range payments {
		out = append(out, paymentResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, gin.H{"settled": out})
}

func (pc *PaymentController) loadPayment(c *gin.Context) (*models.Payment, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return nil, false
	}
	payment, err := pc.Payments.GetByID(c.Request.Context(), id)
	if err != nil {
		pc.respondError(c, err)
		return nil, false
	}
	return payment, true
}

func paymentResponse(payment *models.Payment) gin.H {
	return gin.H{
		"payment_id":      payment.ID,
		"state":           payment.State,
		"amount":          payment.Amount.StringFixed(2),
		"refunded_amount": payment.RefundedAmount.StringFixed(2),
		"currency":        payment.Currency,
		"remote_id":       payment.RemoteID,
	}
}

// respondError maps the service error taxonomy onto HTTP statuses.
func (pc *PaymentController) respondError(c *gin.Context, err error) {
	var (
		validationErr    *services.ValidationError
		declinedErr      *services.PaymentDeclinedError
		hardDeclineErr   *services.HardDeclineError
		methodInvalidErr *services.PaymentMethodInvalidError
		profileErr       *services.ProfileNotFoundError
		refundErr        *services.RefundExceedsAmountError
		stateErr         *services.InvalidStateError
		cardTypeErr      *services.UnsupportedCardTypeError
		transportErr     *authnet.TransportError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &refundErr), errors.As(err, &cardTypeErr):
		status = http.StatusBadRequest
	case errors.As(err, &declinedErr), errors.As(err, &hardDeclineErr), errors.As(err, &methodInvalidErr):
		status = http.StatusPaymentRequired
	case errors.As(err, &stateErr), errors.As(err, &profileErr):
		status = http.StatusConflict
	case errors.As(err, &transportErr):
		status = http.StatusBadGateway
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		pc.Logger.Error("request failed", zap.Error(err))
	} else {
		pc.Logger.Warn("request rejected", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
