package services_test

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnoltman65/commerce-authnet/authnet"
	"github.com/johnoltman65/commerce-authnet/models"
)

// --- Mock gateway ---

type mockGateway struct {
	requests []authnet.Request
	handler  func(req authnet.Request) (*authnet.Response, error)
}

func (g *mockGateway) Execute(_ context.Context, req authnet.Request) (*authnet.Response, error) {
	g.requests = append(g.requests, req)
	return g.handler(req)
}

func okResponse(body string) *authnet.Response {
	return &authnet.Response{
		ResultCode: authnet.ResultCodeOk,
		Messages:   []authnet.Message{{Code: "I00001", Text: "Successful."}},
		Raw:        json.RawMessage(body),
	}
}

func errorResponse(code, text string) *authnet.Response {
	return &authnet.Response{
		ResultCode: "Error",
		Messages:   []authnet.Message{{Code: code, Text: text}},
		Raw:        json.RawMessage(`{}`),
	}
}

// --- Mock repositories ---

type mockPaymentRepo struct {
	payments map[uuid.UUID]*models.Payment
	saved    []*models.Payment
	pending  []models.Payment
	queried  []string
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[uuid.UUID]*models.Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockPaymentRepo) Save(_ context.Context, payment *models.Payment) error {
	m.payments[payment.ID] = payment
	m.saved = append(m.saved, payment)
	return nil
}

func (m *mockPaymentRepo) FindPendingEcheckByRemoteIDs(_ context.Context, remoteIDs []string) ([]models.Payment, error) {
	m.queried = remoteIDs
	var out []models.Payment
	for _, p := range m.pending {
		for _, id := range remoteIDs {
			if p.RemoteID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type mockMethodRepo struct {
	methods map[uuid.UUID]*models.PaymentMethod
	deleted []uuid.UUID
}

func newMockMethodRepo() *mockMethodRepo {
	return &mockMethodRepo{methods: make(map[uuid.UUID]*models.PaymentMethod)}
}

func (m *mockMethodRepo) Create(_ context.Context, method *models.PaymentMethod) error {
	m.methods[method.ID] = method
	return nil
}

func (m *mockMethodRepo) GetByID(_ context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	method, ok := m.methods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return method, nil
}

func (m *mockMethodRepo) Save(_ context.Context, method *models.PaymentMethod) error {
	m.methods[method.ID] = method
	return nil
}

func (m *mockMethodRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.methods, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCustomerRepo struct {
	customers map[uuid.UUID]*models.Customer
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[uuid.UUID]*models.Customer)}
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *mockCustomerRepo) Save(_ context.Context, customer *models.Customer) error {
	m.customers[customer.ID] = customer
	return nil
}

type mockOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

// --- Mock event publisher ---

type mockPublisher struct {
	events []models.PaymentEvent
}

func (m *mockPublisher) SendPaymentEvent(event models.PaymentEvent) error {
	m.events = append(m.events, event)
	return nil
}
