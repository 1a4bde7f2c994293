package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/johnoltman65/commerce-authnet/authnet"
	"github.com/johnoltman65/commerce-authnet/models"
	"github.com/johnoltman65/commerce-authnet/repository"
)

// maxLineItemLabel is the gateway's limit on line item names. Longer
// labels are cut to 28 characters plus an ellipsis.
const maxLineItemLabel = 31

// TransactionService orchestrates gateway transactions and the payment
// state machine. Local state is only written after the gateway confirms.
type TransactionService interface {
	// AuthorizeAndCapture authorizes a new payment, capturing immediately
	// when capture is true. Echeck payments always capture remotely and
	// land in pending until settlement confirms them.
	AuthorizeAndCapture(ctx context.Context, payment *models.Payment, capture bool) error
	// Refund refunds part or all of a completed payment. A nil amount
	// refunds the full remaining amount.
	Refund(ctx context.Context, payment *models.Payment, amount *decimal.Decimal) error
	// Void cancels a card authorization on the gateway.
	Void(ctx context.Context, payment *models.Payment) error
	// CaptureEcheck promotes a pending echeck payment to completed. Local
	// only: the gateway settles echecks asynchronously and settlement
	// reconciliation is the authoritative confirmation.
	CaptureEcheck(ctx context.Context, payment *models.Payment) error
	// VoidEcheck voids a pending echeck payment. Local only.
	VoidEcheck(ctx context.Context, payment *models.Payment) error
}

type transactionServiceImpl struct {
	gateway   Gateway
	profiles  ProfileService
	payments  repository.PaymentRepository
	methods   repository.PaymentMethodRepository
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	events    EventPublisher
	logger    *zap.Logger
}

func NewTransactionService(
	gateway Gateway,
	profiles ProfileService,
	payments repository.PaymentRepository,
	methods repository.PaymentMethodRepository,
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	events EventPublisher,
	logger *zap.Logger,
) TransactionService {
	return &transactionServiceImpl{
		gateway:   gateway,
		profiles:  profiles,
		payments:  payments,
		methods:   methods,
		customers: customers,
		orders:    orders,
		events:    events,
		logger:    logger,
	}
}

func (s *transactionServiceImpl) AuthorizeAndCapture(ctx context.Context, payment *models.Payment, capture bool) error {
	if err := assertPaymentState(payment, models.PaymentStateNew); err != nil {
		return err
	}
	method, err := s.methods.GetByID(ctx, payment.PaymentMethodID)
	if err != nil {
		return fmt.Errorf("load payment method: %w", err)
	}
	order, err := s.orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	txn := authnet.TransactionRequest{
		TransactionType: authnet.TransactionTypeAuthCapture,
		Amount:          payment.Amount.StringFixed(2),
		Order:           &authnet.OrderData{InvoiceNumber: order.InvoiceNumber()},
		CustomerIP:      order.CustomerIP,
		LineItems:       buildLineItems(order.Items),
		Tax:             &authnet.ExtendedAmount{Amount: order.TaxAmount.StringFixed(2)},
	}
	switch payment.Kind {
	case models.GatewayKindEcheck:
		// Echecks have no real authorized state on the gateway, so the
		// transaction always captures.
		remoteID, err := models.ParseRemoteID(method.RemoteID)
		if err != nil || !remoteID.IsComposite() {
			return &ValidationError{Reason: "echeck payment method has no usable token"}
		}
		descriptor, value := remoteID.Pair()
		txn.Payment = &authnet.PaymentData{
			OpaqueData: &authnet.OpaqueData{DataDescriptor: descriptor, DataValue: value},
		}
		txn.BillTo = buildBillTo(method.BillingAddress)
		txn.Shipping = &authnet.ExtendedAmount{Amount: order.ShippingAmount.StringFixed(2)}
	default:
		if !capture {
			txn.TransactionType = authnet.TransactionTypeAuthOnly
		}
		owner, err := s.customers.GetByID(ctx, method.OwnerID)
		if err != nil {
			return fmt.Errorf("load owner: %w", err)
		}
		customerProfileID, paymentProfileID, err := s.profiles.ResolveProfile(owner, method)
		if err != nil {
			return err
		}
		txn.Profile = &authnet.ProfileRef{
			CustomerProfileID: customerProfileID,
			PaymentProfile:    authnet.PaymentProfileRef{PaymentProfileID: paymentProfileID},
		}
	}
	if order.Shipment != nil {
		txn.ShipTo = buildShipTo(order.Shipment.ShippingAddress)
	}

	resp, err := s.gateway.Execute(ctx, &authnet.CreateTransactionRequest{TransactionRequest: txn})
	if err != nil {
		return err
	}
	if !resp.Ok() {
		msg := resp.Message()
		if msg.Code == authnet.ErrorCodeInvalidReference {
			// The stored token was revoked; the user has to re-enter
			// payment details.
			if err := s.methods.Delete(ctx, method.ID); err != nil {
				return fmt.Errorf("delete invalid payment method: %w", err)
			}
			return &PaymentMethodInvalidError{PaymentMethodID: method.ID}
		}
		return &PaymentDeclinedError{Code: msg.Code, Text: msg.Text}
	}

	var body authnet.CreateTransactionResponse
	if err := resp.Decode(&body); err != nil {
		return fmt.Errorf("decode transaction response: %w", err)
	}
	if txnErr, ok := body.TransactionResponse.Errors.First(); ok {
		return &HardDeclineError{Code: txnErr.ErrorCode, Text: txnErr.ErrorText}
	}

	switch {
	case payment.Kind == models.GatewayKindEcheck:
		payment.State = models.PaymentStatePending
	case capture:
		payment.State = models.PaymentStateCompleted
	default:
		payment.State = models.PaymentStateAuthorization
	}
	payment.RemoteID = body.TransactionResponse.TransID
	if err := s.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	s.logger.Info("payment transaction accepted",
		zap.String("payment_id", payment.ID.String()),
		zap.String("remote_id", payment.RemoteID),
		zap.String("state", string(payment.State)),
	)
	s.publishEvent(payment, "payment_"+string(payment.State))
	return nil
}

func (s *transactionServiceImpl) Refund(ctx context.Context, payment *models.Payment, amount *decimal.Decimal) error {
	if err := assertPaymentState(payment, models.PaymentStateCompleted, models.PaymentStatePartiallyRefunded); err != nil {
		return err
	}
	remaining := payment.RemainingAmount()
	refund := remaining
	if amount != nil {
		refund = *amount
	}
	if refund.GreaterThan(remaining) {
		return &RefundExceedsAmountError{Requested: refund, Available: remaining}
	}
	method, err := s.methods.GetByID(ctx, payment.PaymentMethodID)
	if err != nil {
		return fmt.Errorf("load payment method: %w", err)
	}
	order, err := s.orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	resp, err := s.gateway.Execute(ctx, &authnet.CreateTransactionRequest{
		TransactionRequest: authnet.TransactionRequest{
			TransactionType: authnet.TransactionTypeRefund,
			Amount:          refund.StringFixed(2),
			RefTransID:      payment.RemoteID,
			Order:           &authnet.OrderData{InvoiceNumber: order.InvoiceNumber()},
			// Refunds are verified against the masked card.
			Payment: &authnet.PaymentData{
				CreditCard: &authnet.CreditCard{
					CardNumber:     method.Last4,
					ExpirationDate: fmt.Sprintf("%02d%02d", method.ExpMonth, method.ExpYear%100),
				},
			},
		},
	})
	if err != nil {
		return err
	}
	if !resp.Ok() {
		msg := resp.Message()
		return &PaymentDeclinedError{Code: msg.Code, Text: msg.Text}
	}

	payment.RefundedAmount = payment.RefundedAmount.Add(refund)
	if payment.RefundedAmount.LessThan(payment.Amount) {
		payment.State = models.PaymentStatePartiallyRefunded
	} else {
		payment.State = models.PaymentStateRefunded
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	s.logger.Info("payment refunded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("refund_amount", refund.StringFixed(2)),
		zap.String("state", string(payment.State)),
	)
	s.publishEvent(payment, "payment_"+string(payment.State))
	return nil
}

func (s *transactionServiceImpl) Void(ctx context.Context, payment *models.Payment) error {
	if err := assertPaymentState(payment, models.PaymentStateAuthorization); err != nil {
		return err
	}
	resp, err := s.gateway.Execute(ctx, &authnet.CreateTransactionRequest{
		TransactionRequest: authnet.TransactionRequest{
			TransactionType: authnet.TransactionTypeVoid,
			RefTransID:      payment.RemoteID,
		},
	})
	if err != nil {
		return err
	}
	if !resp.Ok() {
		msg := resp.Message()
		return &PaymentDeclinedError{Code: msg.Code, Text: msg.Text}
	}
	payment.State = models.PaymentStateVoided
	if err := s.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	s.publishEvent(payment, "payment_voided")
	return nil
}

func (s *transactionServiceImpl) CaptureEcheck(ctx context.Context, payment *models.Payment) error {
	if err := assertPaymentState(payment, models.PaymentStatePending); err != nil {
		return err
	}
	payment.State = models.PaymentStateCompleted
	if err := s.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	s.publishEvent(payment, "payment_completed")
	return nil
}

func (s *transactionServiceImpl) VoidEcheck(ctx context.Context, payment *models.Payment) error {
	if err := assertPaymentState(payment, models.PaymentStatePending); err != nil {
		return err
	}
	payment.State = models.PaymentStateVoided
	if err := s.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	s.publishEvent(payment, "payment_voided")
	return nil
}

// publishEvent emits a lifecycle event. Best effort; a broker outage must
// not fail a confirmed gateway transaction.
func (s *transactionServiceImpl) publishEvent(payment *models.Payment, eventType string) {
	event := models.PaymentEvent{
		Type:      eventType,
		PaymentID: payment.ID.String(),
		OrderID:   payment.OrderID.String(),
		State:     string(payment.State),
		Amount:    payment.Amount.StringFixed(2),
		Currency:  payment.Currency,
		RemoteID:  payment.RemoteID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.events.SendPaymentEvent(event); err != nil {
		s.logger.Warn("failed to publish payment event",
			zap.String("payment_id", payment.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func buildLineItems(items []models.OrderItem) *authnet.LineItems {
	if len(items) == 0 {
		return nil
	}
	lineItems := make([]authnet.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, authnet.LineItem{
			ItemID:    item.ID.String(),
			Name:      truncateLabel(item.Label),
			Quantity:  strconv.Itoa(item.Quantity),
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return &authnet.LineItems{LineItem: lineItems}
}

func truncateLabel(label string) string {
	if len(label) > maxLineItemLabel {
		return label[:28] + "..."
	}
	return label
}

func buildShipTo(address models.Address) *authnet.ShipTo {
	billTo := buildBillTo(address)
	return &authnet.ShipTo{
		FirstName: billTo.FirstName,
		LastName:  billTo.LastName,
		Company:   billTo.Company,
		Address:   billTo.Address,
		City:      billTo.City,
		State:     billTo.State,
		Zip:       billTo.Zip,
		Country:   billTo.Country,
	}
}
