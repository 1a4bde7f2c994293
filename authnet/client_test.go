package authnet_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnoltman65/commerce-authnet/authnet"
)

func newTestClient(endpoint string) *authnet.Client {
	return authnet.NewClient(authnet.Config{
		Endpoint:       endpoint,
		APILoginID:     "login",
		TransactionKey: "key",
		Timeout:        2 * time.Second,
	}, zap.NewNop())
}

func TestClient_Execute_WrapsRequestAndInjectsAuth(t *testing.T) {
	var received map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.Write([]byte(`{"messages": {"resultCode": "Ok", "message": [{"code": "I00001", "text": "Successful."}]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Execute(context.Background(), &authnet.CreateTransactionRequest{
		TransactionRequest: authnet.TransactionRequest{
			TransactionType: authnet.TransactionTypeAuthCapture,
			Amount:          "50.00",
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Ok())

	inner, ok := received["createTransactionRequest"]
	require.True(t, ok, "payload wrapped under the request name")
	var payload struct {
		MerchantAuthentication authnet.MerchantAuthentication `json:"merchantAuthentication"`
		TransactionRequest     authnet.TransactionRequest     `json:"transactionRequest"`
	}
	require.NoError(t, json.Unmarshal(inner, &payload))
	assert.Equal(t, "login", payload.MerchantAuthentication.Name)
	assert.Equal(t, "key", payload.MerchantAuthentication.TransactionKey)
	assert.Equal(t, "50.00", payload.TransactionRequest.Amount)
}

func TestClient_Execute_DeclineIsNotATransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages": {"resultCode": "Error", "message": [{"code": "E00027", "text": "The transaction was unsuccessful."}]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Execute(context.Background(), &authnet.GetTransactionListRequest{BatchID: "B1"})
	require.NoError(t, err, "business declines surface as responses, not errors")
	assert.False(t, resp.Ok())
	assert.Equal(t, "E00027", resp.Message().Code)
}

func TestClient_Execute_ServerErrorIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Execute(context.Background(), &authnet.GetTransactionListRequest{BatchID: "B1"})

	var transportErr *authnet.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestClient_Execute_ConnectionFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(server.URL)
	_, err := client.Execute(context.Background(), &authnet.GetTransactionListRequest{BatchID: "B1"})

	var transportErr *authnet.TransportError
	require.ErrorAs(t, err, &transportErr)
}
