package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnoltman65/commerce-authnet/authnet"
	"github.com/johnoltman65/commerce-authnet/models"
	"github.com/johnoltman65/commerce-authnet/services"
)

type settlementFixture struct {
	gateway  *mockGateway
	payments *mockPaymentRepo
	svc      services.SettlementService
}

func newSettlementFixture() *settlementFixture {
	f := &settlementFixture{
		gateway:  &mockGateway{},
		payments: newMockPaymentRepo(),
	}
	logger, _ := zap.NewDevelopment()
	// The worker path is exercised through CaptureEcheck elsewhere; these
	// tests only need the query side, so a nil transaction service is fine.
	f.svc = services.NewSettlementService(f.gateway, f.payments, nil, logger)
	return f
}

func pendingEcheck(remoteID string) models.Payment {
	return models.Payment{
		ID:       uuid.New(),
		Kind:     models.GatewayKindEcheck,
		State:    models.PaymentStatePending,
		Amount:   decimal.RequireFromString("75.00"),
		Currency: "USD",
		RemoteID: remoteID,
	}
}

const singleBatchBody = `{
	"batchList": {"batch": {
		"batchId": "B1",
		"settlementState": "settledSuccessfully",
		"paymentMethod": "eCheck"
	}}
}`

const multiBatchBody = `{
	"batchList": [
		{"batchId": "B1", "settlementState": "settledSuccessfully", "paymentMethod": "eCheck"},
		{"batchId": "B2", "settlementState": "settledSuccessfully", "paymentMethod": "creditCard"},
		{"batchId": "B3", "settlementState": "settlementError", "paymentMethod": "eCheck"}
	]
}`

const singleTransactionBody = `{
	"transactions": {"transaction": {"transId": "70200001"}},
	"totalNumInResultSet": 1
}`

const multiTransactionBody = `{
	"transactions": [
		{"transId": "70200001"},
		{"transId": "70200002"}
	],
	"totalNumInResultSet": 2
}`

func (f *settlementFixture) scriptedHandler(batchBody, transactionBody string) {
	f.gateway.handler = func(req authnet.Request) (*authnet.Response, error) {
		switch req.(type) {
		case *authnet.GetSettledBatchListRequest:
			return okResponse(batchBody), nil
		case *authnet.GetTransactionListRequest:
			return okResponse(transactionBody), nil
		}
		return nil, nil
	}
}

func TestGetSettledTransactions_ScalarAndListShapesAgree(t *testing.T) {
	window := func(f *settlementFixture) ([]models.Payment, error) {
		return f.svc.GetSettledTransactions(context.Background(),
			time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	}

	scalar := newSettlementFixture()
	scalar.payments.pending = []models.Payment{pendingEcheck("70200001")}
	scalar.scriptedHandler(singleBatchBody, singleTransactionBody)
	fromScalar, err := window(scalar)
	require.NoError(t, err)

	list := newSettlementFixture()
	list.payments.pending = []models.Payment{pendingEcheck("70200001")}
	list.scriptedHandler(multiBatchBody, singleTransactionBody)
	fromList, err := window(list)
	require.NoError(t, err)

	// Both shapes resolve the same settled eCheck batch, so the same
	// pending payment comes back.
	require.Len(t, fromScalar, 1)
	require.Len(t, fromList, 1)
	assert.Equal(t, fromScalar[0].RemoteID, fromList[0].RemoteID)
	assert.Equal(t, []string{"70200001"}, scalar.payments.queried)
	assert.Equal(t, []string{"70200001"}, list.payments.queried)
}

func TestGetSettledTransactions_FiltersBatches(t *testing.T) {
	f := newSettlementFixture()
	f.scriptedHandler(multiBatchBody, multiTransactionBody)

	_, err := f.svc.GetSettledTransactions(context.Background(), time.Now().Add(-24*time.Hour), time.Now())
	require.NoError(t, err)

	// Only B1 is an eCheck batch that settled successfully, so exactly one
	// transaction list request goes out.
	var listRequests []*authnet.GetTransactionListRequest
	for _, req := range f.gateway.requests {
		if r, ok := req.(*authnet.GetTransactionListRequest); ok {
			listRequests = append(listRequests, r)
		}
	}
	require.Len(t, listRequests, 1)
	assert.Equal(t, "B1", listRequests[0].BatchID)
	assert.Equal(t, []string{"70200001", "70200002"}, f.payments.queried)
}

func TestGetSettledTransactions_NonOkBatchListYieldsNothing(t *testing.T) {
	f := newSettlementFixture()
	f.gateway.handler = func(req authnet.Request) (*authnet.Response, error) {
		return errorResponse("E00001", "An error occurred during processing."), nil
	}

	payments, err := f.svc.GetSettledTransactions(context.Background(), time.Now().Add(-24*time.Hour), time.Now())
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestGetSettledTransactions_DateWindowFormat(t *testing.T) {
	f := newSettlementFixture()
	f.scriptedHandler(singleBatchBody, singleTransactionBody)

	from := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	to := time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC)
	_, err := f.svc.GetSettledTransactions(context.Background(), from, to)
	require.NoError(t, err)

	req, ok := f.gateway.requests[0].(*authnet.GetSettledBatchListRequest)
	require.True(t, ok)
	assert.Equal(t, "2026-08-01T09:30:00", req.FirstSettlementDate)
	assert.Equal(t, "2026-08-02T09:30:00", req.LastSettlementDate)
}
