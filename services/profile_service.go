package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnoltman65/commerce-authnet/authnet"
	"github.com/johnoltman65/commerce-authnet/models"
	"github.com/johnoltman65/commerce-authnet/repository"
)

// PaymentDetails is the tokenized input from the payment form. The raw
// card or account number never reaches this service.
type PaymentDetails struct {
	DataDescriptor string
	DataValue      string
	CustomerEmail  string // anonymous checkouts only
	Last4          string
	ExpMonth       int
	ExpYear        int
}

// ProfileService resolves chargeable gateway profiles for payment methods.
type ProfileService interface {
	// CreatePaymentMethod stores a tokenized card on the gateway, creating
	// or reusing the owner's customer profile, and fills in the local
	// payment method record.
	CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod, details PaymentDetails) error
	// CreateEcheckPaymentMethod registers a single-use echeck token
	// locally. No remote call is made; the token itself is the remote id.
	CreateEcheckPaymentMethod(ctx context.Context, method *models.PaymentMethod, details PaymentDetails) error
	// ResolveProfile returns the (customerProfileId, paymentProfileId)
	// pair to charge for a payment method.
	ResolveProfile(owner *models.Customer, method *models.PaymentMethod) (string, string, error)
}

// validationModeLive asks the gateway to run a live validation transaction
// so the response carries a validationDirectResponse string.
const validationModeLive = "liveMode"

// cardBrandOffset is the position of the card brand in the comma-delimited
// validationDirectResponse. Contract with the gateway's legacy response
// format; must not change.
const cardBrandOffset = 51

// echeckTokenTTL is how long an opaque echeck token stays usable. The
// gateway expires them after 15 minutes; 5 seconds cover the hop from the
// client-side tokenization to this request.
const echeckTokenTTL = 15*time.Minute - 5*time.Second

var cardTypeMap = map[string]models.CardType{
	"American Express": models.CardTypeAmex,
	"Diners Club":      models.CardTypeDinersClub,
	"Discover":         models.CardTypeDiscover,
	"JCB":              models.CardTypeJCB,
	"MasterCard":       models.CardTypeMastercard,
	"Visa":             models.CardTypeVisa,
}

type profileServiceImpl struct {
	gateway   Gateway
	methods   repository.PaymentMethodRepository
	customers repository.CustomerRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewProfileService(
	gateway Gateway,
	methods repository.PaymentMethodRepository,
	customers repository.CustomerRepository,
	logger *zap.Logger,
) ProfileService {
	return &profileServiceImpl{
		gateway:   gateway,
		methods:   methods,
		customers: customers,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *profileServiceImpl) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod, details PaymentDetails) error {
	if err := validateDetails(details); err != nil {
		return err
	}
	owner, err := s.customers.GetByID(ctx, method.OwnerID)
	if err != nil {
		return fmt.Errorf("load owner: %w", err)
	}

	var customerProfileID, paymentProfileID, validationDirect string
	if !owner.Anonymous && owner.AuthnetCustomerID != "" {
		customerProfileID = owner.AuthnetCustomerID
		paymentProfileID, validationDirect, err = s.attachPaymentProfile(ctx, owner, method, details)
	} else {
		customerProfileID, paymentProfileID, validationDirect, err = s.createCustomerProfile(ctx, owner, method, details)
	}
	if err != nil {
		return err
	}

	cardType, err := extractCardType(validationDirect)
	if err != nil {
		return err
	}

	if owner.Anonymous {
		// Anonymous owners never get a durable profile; the disposable
		// pair is the token.
		method.RemoteID = models.CompositePair(customerProfileID, paymentProfileID).String()
	} else {
		method.RemoteID = models.SingleToken(paymentProfileID).String()
	}
	method.CardType = cardType
	method.Last4 = details.Last4
	method.ExpMonth = details.ExpMonth
	method.ExpYear = details.ExpYear
	method.Reusable = true
	method.ExpiresAt = cardExpirationTime(details.ExpMonth, details.ExpYear)

	if err := s.methods.Save(ctx, method); err != nil {
		return fmt.Errorf("save payment method: %w", err)
	}
	s.logger.Info("payment method created",
		zap.String("payment_method_id", method.ID.String()),
		zap.String("card_type", string(cardType)),
	)
	return nil
}

// attachPaymentProfile adds a payment profile to the owner's existing
// customer profile.
func (s *profileServiceImpl) attachPaymentProfile(ctx context.Context, owner *models.Customer, method *models.PaymentMethod, details PaymentDetails) (string, string, error) {
	resp, err := s.gateway.Execute(ctx, &authnet.CreateCustomerPaymentProfileRequest{
		CustomerProfileID: owner.AuthnetCustomerID,
		PaymentProfile:    buildPaymentProfile(method.BillingAddress, details),
		ValidationMode:    validationModeLive,
	})
	if err != nil {
		return "", "", err
	}
	var body authnet.CreateCustomerPaymentProfileResponse
	if err := resp.Decode(&body); err != nil {
		return "", "", fmt.Errorf("decode payment profile response: %w", err)
	}
	if !resp.Ok() {
		msg := resp.Message()
		switch msg.Code {
		case authnet.ErrorCodeDuplicate:
			// The payment profile already exists under this customer;
			// reuse the id the gateway reports.
			if body.CustomerPaymentProfileID == "" {
				return "", "", &PaymentDeclinedError{Code: msg.Code, Text: "duplicate payment profile without an existing id"}
			}
		case authnet.ErrorCodeInvalidReference:
			// Stale customer reference. Clear it so the next attempt
			// creates a fresh profile.
			stale := owner.AuthnetCustomerID
			owner.AuthnetCustomerID = ""
			if err := s.customers.Save(ctx, owner); err != nil {
				return "", "", fmt.Errorf("clear stale customer profile: %w", err)
			}
			return "", "", &ProfileNotFoundError{CustomerProfileID: stale}
		default:
			return "", "", &PaymentDeclinedError{Code: msg.Code, Text: msg.Text}
		}
	}
	return body.CustomerPaymentProfileID, body.ValidationDirectResponse, nil
}

// createCustomerProfile creates a customer profile embedding one payment
// profile, recovering from the duplicate-profile race by attaching to the
// existing profile instead.
func (s *profileServiceImpl) createCustomerProfile(ctx context.Context, owner *models.Customer, method *models.PaymentMethod, details PaymentDetails) (string, string, string, error) {
	merchantCustomerID := owner.ID.String()
	email := owner.Email
	if owner.Anonymous {
		merchantCustomerID = fmt.Sprintf("%s_%d", owner.ID, s.now().Unix())
		email = details.CustomerEmail
	}
	resp, err := s.gateway.Execute(ctx, &authnet.CreateCustomerProfileRequest{
		Profile: authnet.Profile{
			MerchantCustomerID: merchantCustomerID,
			Email:              email,
			PaymentProfiles:    []authnet.PaymentProfile{buildPaymentProfile(method.BillingAddress, details)},
		},
		ValidationMode: validationModeLive,
	})
	if err != nil {
		return "", "", "", err
	}

	var customerProfileID, paymentProfileID, validationDirect string
	if resp.Ok() {
		var body authnet.CreateCustomerProfileResponse
		if err := resp.Decode(&body); err != nil {
			return "", "", "", fmt.Errorf("decode customer profile response: %w", err)
		}
		customerProfileID = body.CustomerProfileID
		paymentProfileID, _ = body.CustomerPaymentProfileIDList.First()
		validationDirect, _ = body.ValidationDirectResponseList.First()
	} else {
		msg := resp.Message()
		if msg.Code != authnet.ErrorCodeDuplicate {
			return "", "", "", &PaymentDeclinedError{Code: msg.Code, Text: msg.Text}
		}
		// Concurrent signup already created this customer. The existing
		// profile id is embedded in the error text; attach to it instead.
		existingID, ok := extractProfileID(msg.Text)
		if !ok {
			return "", "", "", &PaymentDeclinedError{Code: msg.Code, Text: msg.Text}
		}
		s.logger.Info("recovering duplicate customer profile",
			zap.String("customer_profile_id", existingID))
		attachResp, err := s.gateway.Execute(ctx, &authnet.CreateCustomerPaymentProfileRequest{
			CustomerProfileID: existingID,
			PaymentProfile:    buildPaymentProfile(method.BillingAddress, details),
			ValidationMode:    validationModeLive,
		})
		if err != nil {
			return "", "", "", err
		}
		if !attachResp.Ok() {
			attachMsg := attachResp.Message()
			return "", "", "", &PaymentDeclinedError{Code: attachMsg.Code, Text: attachMsg.Text}
		}
		var body authnet.CreateCustomerPaymentProfileResponse
		if err := attachResp.Decode(&body); err != nil {
			return "", "", "", fmt.Errorf("decode payment profile response: %w", err)
		}
		customerProfileID = existingID
		paymentProfileID = body.CustomerPaymentProfileID
		validationDirect = body.ValidationDirectResponse
	}

	if !owner.Anonymous {
		owner.AuthnetCustomerID = customerProfileID
		if err := s.customers.Save(ctx, owner); err != nil {
			return "", "", "", fmt.Errorf("store customer profile id: %w", err)
		}
	}
	return customerProfileID, paymentProfileID, validationDirect, nil
}

func (s *profileServiceImpl) CreateEcheckPaymentMethod(ctx context.Context, method *models.PaymentMethod, details PaymentDetails) error {
	if err := validateDetails(details); err != nil {
		return err
	}
	// Echecks cannot be stored for reuse; the single-use token pair is the
	// remote id and expires with the token.
	method.Reusable = false
	method.RemoteID = models.CompositePair(details.DataDescriptor, details.DataValue).String()
	method.ExpiresAt = s.now().Add(echeckTokenTTL)
	if err := s.methods.Save(ctx, method); err != nil {
		return fmt.Errorf("save payment method: %w", err)
	}
	return nil
}

func (s *profileServiceImpl) ResolveProfile(owner *models.Customer, method *models.PaymentMethod) (string, string, error) {
	if owner.AuthnetCustomerID != "" {
		return owner.AuthnetCustomerID, method.RemoteID, nil
	}
	remoteID, err := models.ParseRemoteID(method.RemoteID)
	if err != nil || !remoteID.IsComposite() {
		return "", "", &ValidationError{Reason: fmt.Sprintf("payment method %s has no resolvable profile", method.ID)}
	}
	customerProfileID, paymentProfileID := remoteID.Pair()
	return customerProfileID, paymentProfileID, nil
}

func validateDetails(details PaymentDetails) error {
	if details.DataDescriptor == "" {
		return &ValidationError{Reason: "payment details must contain data_descriptor"}
	}
	if details.DataValue == "" {
		return &ValidationError{Reason: "payment details must contain data_value"}
	}
	return nil
}

func buildPaymentProfile(address models.Address, details PaymentDetails) authnet.PaymentProfile {
	return authnet.PaymentProfile{
		CustomerType: "individual",
		BillTo:       buildBillTo(address),
		Payment: authnet.PaymentData{
			OpaqueData: &authnet.OpaqueData{
				DataDescriptor: details.DataDescriptor,
				DataValue:      details.DataValue,
			},
		},
	}
}

// buildBillTo maps a local address onto the gateway billing block. Empty
// optional fields stay unset; the gateway rejects blank strings.
func buildBillTo(address models.Address) *authnet.BillTo {
	return &authnet.BillTo{
		FirstName: address.FirstName,
		LastName:  address.LastName,
		Company:   address.Company,
		Address:   truncate(strings.TrimSpace(address.Line1+" "+address.Line2), 60),
		City:      address.City,
		State:     address.State,
		Zip:       address.PostalCode,
		Country:   address.Country,
	}
}

// extractCardType pulls the card brand out of the legacy comma-delimited
// validation response. The brand sits at a fixed offset; a response with
// fewer fields fails loudly instead of returning wrong data.
func extractCardType(validationDirect string) (models.CardType, error) {
	fields := strings.Split(validationDirect, ",")
	if len(fields) <= cardBrandOffset {
		return "", &ValidationError{
			Reason: fmt.Sprintf("validation response has %d fields, need %d", len(fields), cardBrandOffset+1),
		}
	}
	brand := fields[cardBrandOffset]
	cardType, ok := cardTypeMap[brand]
	if !ok {
		return "", &UnsupportedCardTypeError{CardType: brand}
	}
	return cardType, nil
}

// extractProfileID finds the first whitespace-delimited numeric token in a
// duplicate-profile error text.
func extractProfileID(text string) (string, bool) {
	for _, field := range strings.Fields(text) {
		if _, err := strconv.ParseUint(field, 10, 64); err == nil {
			return field, true
		}
	}
	return "", false
}

// cardExpirationTime is the last instant of the card's expiry month.
func cardExpirationTime(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0).Add(-time.Second)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
