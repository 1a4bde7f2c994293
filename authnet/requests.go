package authnet

// Request is a gateway request payload. Implementations embed requestBase
// so merchantAuthentication serializes first, which the gateway requires.
type Request interface {
	apiName() string
	setAuth(a MerchantAuthentication)
}

type requestBase struct {
	MerchantAuthentication MerchantAuthentication `json:"merchantAuthentication"`
	RefID                  string                 `json:"refId,omitempty"`
}

func (b *requestBase) setAuth(a MerchantAuthentication) { b.MerchantAuthentication = a }

// TransactionRequest is the body of a createTransactionRequest. Which
// optional blocks are present depends on the transaction type.
type TransactionRequest struct {
	TransactionType string          `json:"transactionType"`
	Amount          string          `json:"amount,omitempty"`
	Payment         *PaymentData    `json:"payment,omitempty"`
	Profile         *ProfileRef     `json:"profile,omitempty"`
	Order           *OrderData      `json:"order,omitempty"`
	LineItems       *LineItems      `json:"lineItems,omitempty"`
	Tax             *ExtendedAmount `json:"tax,omitempty"`
	Shipping        *ExtendedAmount `json:"shipping,omitempty"`
	RefTransID      string          `json:"refTransId,omitempty"`
	CustomerIP      string          `json:"customerIP,omitempty"`
	BillTo          *BillTo         `json:"billTo,omitempty"`
	ShipTo          *ShipTo         `json:"shipTo,omitempty"`
}

// Transaction types supported by the gateway.
const (
	TransactionTypeAuthCapture = "authCaptureTransaction"
	TransactionTypeAuthOnly    = "authOnlyTransaction"
	TransactionTypeRefund      = "refundTransaction"
	TransactionTypeVoid        = "voidTransaction"
)

type CreateTransactionRequest struct {
	requestBase
	TransactionRequest TransactionRequest `json:"transactionRequest"`
}

func (*CreateTransactionRequest) apiName() string { return "createTransactionRequest" }

type CreateCustomerProfileRequest struct {
	requestBase
	Profile        Profile `json:"profile"`
	ValidationMode string  `json:"validationMode,omitempty"`
}

func (*CreateCustomerProfileRequest) apiName() string { return "createCustomerProfileRequest" }

type CreateCustomerPaymentProfileRequest struct {
	requestBase
	CustomerProfileID string         `json:"customerProfileId"`
	PaymentProfile    PaymentProfile `json:"paymentProfile"`
	ValidationMode    string         `json:"validationMode,omitempty"`
}

func (*CreateCustomerPaymentProfileRequest) apiName() string {
	return "createCustomerPaymentProfileRequest"
}

type GetSettledBatchListRequest struct {
	requestBase
	IncludeStatistics   bool   `json:"includeStatistics"`
	FirstSettlementDate string `json:"firstSettlementDate"`
	LastSettlementDate  string `json:"lastSettlementDate"`
}

func (*GetSettledBatchListRequest) apiName() string { return "getSettledBatchListRequest" }

type GetTransactionListRequest struct {
	requestBase
	BatchID string `json:"batchId"`
}

func (*GetTransactionListRequest) apiName() string { return "getTransactionListRequest" }
