package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/johnoltman65/commerce-authnet/authnet"
	"github.com/johnoltman65/commerce-authnet/models"
	"github.com/johnoltman65/commerce-authnet/repository"
)

// settlementDateLayout is the timestamp format the batch list endpoint
// expects.
const settlementDateLayout = "2006-01-02T15:04:05"

// SettlementService reconciles asynchronously settled echeck transactions
// against local pending payments.
type SettlementService interface {
	// GetSettledTransactions returns local pending echeck payments whose
	// remote transaction settled successfully inside the window.
	GetSettledTransactions(ctx context.Context, from, to time.Time) ([]models.Payment, error)
	// Run promotes settled pending payments on an interval until the
	// context is cancelled.
	Run(ctx context.Context, interval, lookback time.Duration)
}

type settlementServiceImpl struct {
	gateway      Gateway
	payments     repository.PaymentRepository
	transactions TransactionService
	logger       *zap.Logger
}

func NewSettlementService(
	gateway Gateway,
	payments repository.PaymentRepository,
	transactions TransactionService,
	logger *zap.Logger,
) SettlementService {
	return &settlementServiceImpl{
		gateway:      gateway,
		payments:     payments,
		transactions: transactions,
		logger:       logger,
	}
}

func (s *settlementServiceImpl) GetSettledTransactions(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	batchResp, err := s.gateway.Execute(ctx, &authnet.GetSettledBatchListRequest{
		IncludeStatistics:   false,
		FirstSettlementDate: from.Format(settlementDateLayout),
		LastSettlementDate:  to.Format(settlementDateLayout),
	})
	if err != nil {
		return nil, err
	}

	var batchIDs []string
	if batchResp.Ok() {
		var body authnet.GetSettledBatchListResponse
		if err := batchResp.Decode(&body); err != nil {
			return nil, &authnet.TransportError{Op: "decode batch list", Err: err}
		}
		for _, batch := range body.BatchList {
			if batch.PaymentMethod != authnet.BatchPaymentMethodEcheck {
				continue
			}
			if batch.SettlementState != authnet.BatchSettlementStateSettled {
				continue
			}
			batchIDs = append(batchIDs, batch.BatchID)
		}
	}

	var remoteIDs []string
	for _, batchID := range batchIDs {
		listResp, err := s.gateway.Execute(ctx, &authnet.GetTransactionListRequest{BatchID: batchID})
		if err != nil {
			return nil, err
		}
		if !listResp.Ok() {
			continue
		}
		var body authnet.GetTransactionListResponse
		if err := listResp.Decode(&body); err != nil {
			return nil, &authnet.TransportError{Op: "decode transaction list", Err: err}
		}
		for _, txn := range body.Transactions {
			remoteIDs = append(remoteIDs, txn.TransID)
		}
	}

	return s.payments.FindPendingEcheckByRemoteIDs(ctx, remoteIDs)
}

func (s *settlementServiceImpl) Run(ctx context.Context, interval, lookback time.Duration) {
	s.logger.Info("starting settlement reconciliation worker",
		zap.Duration("interval", interval),
		zap.Duration("lookback", lookback),
	)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("settlement reconciliation worker stopped")
			return
		case <-ticker.C:
			s.reconcile(ctx, lookback)
		}
	}
}

func (s *settlementServiceImpl) reconcile(ctx context.Context, lookback time.Duration) {
	now := time.Now().UTC()
	payments, err := s.GetSettledTransactions(ctx, now.Add(-lookback), now)
	if err != nil {
		s.logger.Warn("settlement reconciliation failed", zap.Error(err))
		return
	}
	for i := range payments {
		payment := &payments[i]
		if err := s.transactions.CaptureEcheck(ctx, payment); err != nil {
			s.logger.Warn("failed to promote settled payment",
				zap.String("payment_id", payment.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("settled payment promoted",
			zap.String("payment_id", payment.ID.String()),
			zap.String("remote_id", payment.RemoteID),
		)
	}
}
