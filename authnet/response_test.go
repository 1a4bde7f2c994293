package authnet_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnoltman65/commerce-authnet/authnet"
)

func TestOneOrMany_ListShape(t *testing.T) {
	var got authnet.OneOrMany[authnet.Batch]
	err := json.Unmarshal([]byte(`[{"batchId": "B1"}, {"batchId": "B2"}]`), &got)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B1", got[0].BatchID)
	assert.Equal(t, "B2", got[1].BatchID)
}

func TestOneOrMany_ScalarShape(t *testing.T) {
	var got authnet.OneOrMany[authnet.Batch]
	err := json.Unmarshal([]byte(`{"batchId": "B1", "paymentMethod": "eCheck"}`), &got)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B1", got[0].BatchID)
}

func TestOneOrMany_WrappedShapes(t *testing.T) {
	var batches authnet.OneOrMany[authnet.Batch]
	err := json.Unmarshal([]byte(`{"batch": {"batchId": "B1"}}`), &batches)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "B1", batches[0].BatchID)

	err = json.Unmarshal([]byte(`{"batch": [{"batchId": "B1"}, {"batchId": "B2"}]}`), &batches)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	var ids authnet.OneOrMany[string]
	err = json.Unmarshal([]byte(`{"numericString": "20001"}`), &ids)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, "20001", ids[0])
}

func TestOneOrMany_Null(t *testing.T) {
	var got authnet.OneOrMany[string]
	err := json.Unmarshal([]byte(`null`), &got)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, ok := got.First()
	assert.False(t, ok)
}

func TestParseResponse_Envelope(t *testing.T) {
	body := []byte(`{
		"transactionResponse": {"transId": "60100123"},
		"messages": {
			"resultCode": "Ok",
			"message": [{"code": "I00001", "text": "Successful."}]
		}
	}`)
	resp, err := authnet.ParseResponse(body)
	require.NoError(t, err)
	assert.True(t, resp.Ok())
	assert.Equal(t, "I00001", resp.Message().Code)

	var decoded authnet.CreateTransactionResponse
	require.NoError(t, resp.Decode(&decoded))
	assert.Equal(t, "60100123", decoded.TransactionResponse.TransID)
}

func TestParseResponse_SingularMessageAndBOM(t *testing.T) {
	body := []byte("\xef\xbb\xbf" + `{
		"messages": {
			"resultCode": "Error",
			"message": {"code": "E00039", "text": "A duplicate record with ID 39998 already exists."}
		}
	}`)
	resp, err := authnet.ParseResponse(body)
	require.NoError(t, err)
	assert.False(t, resp.Ok())
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "E00039", resp.Message().Code)
}

func TestParseResponse_Malformed(t *testing.T) {
	_, err := authnet.ParseResponse([]byte("not json"))
	require.Error(t, err)
}

func TestResponse_EmptyMessage(t *testing.T) {
	resp := &authnet.Response{ResultCode: "Ok"}
	assert.Equal(t, authnet.Message{}, resp.Message())
}
