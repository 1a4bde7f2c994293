package authnet

import "encoding/json"

// ResultCodeOk is the envelope result code of a successful request.
const ResultCodeOk = "Ok"

// Gateway error codes with dedicated handling.
const (
	// ErrorCodeDuplicate signals a duplicate resource (E00039). Recoverable:
	// the existing resource id can be reused.
	ErrorCodeDuplicate = "E00039"
	// ErrorCodeInvalidReference signals a stale or invalid stored reference
	// (E00040). The local copy of the reference must be discarded.
	ErrorCodeInvalidReference = "E00040"
)

// Response is the parsed gateway response envelope. ResultCode must be
// inspected before trusting any payload field; on a non-Ok result the
// request-specific payload may be absent entirely.
type Response struct {
	ResultCode string
	Messages   []Message
	Raw        json.RawMessage
}

// Ok reports whether the envelope result code is Ok.
func (r *Response) Ok() bool { return r.ResultCode == ResultCodeOk }

// Message returns the first envelope message, or a zero Message.
func (r *Response) Message() Message {
	if len(r.Messages) == 0 {
		return Message{}
	}
	return r.Messages[0]
}

// Decode unmarshals the full response body into a request-specific struct.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

// CreateTransactionResponse is the body of a createTransactionRequest
// response.
type CreateTransactionResponse struct {
	TransactionResponse struct {
		ResponseCode  string                      `json:"responseCode"`
		AuthCode      string                      `json:"authCode"`
		TransID       string                      `json:"transId"`
		AccountNumber string                      `json:"accountNumber"`
		AccountType   string                      `json:"accountType"`
		Errors        OneOrMany[TransactionError] `json:"errors"`
	} `json:"transactionResponse"`
}

// CreateCustomerProfileResponse is the body of a
// createCustomerProfileRequest response.
type CreateCustomerProfileResponse struct {
	CustomerProfileID            string            `json:"customerProfileId"`
	CustomerPaymentProfileIDList OneOrMany[string] `json:"customerPaymentProfileIdList"`
	ValidationDirectResponseList OneOrMany[string] `json:"validationDirectResponseList"`
}

// CreateCustomerPaymentProfileResponse is the body of a
// createCustomerPaymentProfileRequest response.
type CreateCustomerPaymentProfileResponse struct {
	CustomerProfileID        string `json:"customerProfileId"`
	CustomerPaymentProfileID string `json:"customerPaymentProfileId"`
	ValidationDirectResponse string `json:"validationDirectResponse"`
}

// Batch is one settlement batch from getSettledBatchListRequest.
type Batch struct {
	BatchID           string `json:"batchId"`
	SettlementTimeUTC string `json:"settlementTimeUTC"`
	SettlementState   string `json:"settlementState"`
	PaymentMethod     string `json:"paymentMethod"`
}

// Batch filter values used by settlement reconciliation.
const (
	BatchPaymentMethodEcheck    = "eCheck"
	BatchSettlementStateSettled = "settledSuccessfully"
)

// GetSettledBatchListResponse is the body of a getSettledBatchListRequest
// response.
type GetSettledBatchListResponse struct {
	BatchList OneOrMany[Batch] `json:"batchList"`
}

// SettledTransaction is one transaction from getTransactionListRequest.
type SettledTransaction struct {
	TransID           string `json:"transId"`
	TransactionStatus string `json:"transactionStatus"`
	AccountType       string `json:"accountType"`
}

// GetTransactionListResponse is the body of a getTransactionListRequest
// response.
type GetTransactionListResponse struct {
	Transactions        OneOrMany[SettledTransaction] `json:"transactions"`
	TotalNumInResultSet int                           `json:"totalNumInResultSet"`
}
