package authnet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SandboxEndpoint is the gateway's test environment.
const SandboxEndpoint = "https://apitest.authorize.net/xml/v1/request.api"

// ProductionEndpoint is the gateway's live environment.
const ProductionEndpoint = "https://api.authorize.net/xml/v1/request.api"

// TransportError is a network or protocol level failure, including
// transport timeouts. Business declines never surface as TransportError;
// they come back as a parsed Response with a non-Ok result code.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("authnet transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Config is the immutable gateway configuration handed to the client at
// construction.
type Config struct {
	Endpoint       string
	APILoginID     string
	TransactionKey string
	Timeout        time.Duration
}

// Client sends structured requests to the gateway and parses the response
// envelope. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = SandboxEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Execute posts a request to the gateway and parses the response envelope.
// A non-Ok result code is not an error here; callers interpret it.
func (c *Client) Execute(ctx context.Context, req Request) (*Response, error) {
	req.setAuth(MerchantAuthentication{
		Name:           c.cfg.APILoginID,
		TransactionKey: c.cfg.TransactionKey,
	})

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: "marshal request", Err: err}
	}
	// The gateway expects the payload wrapped under its request name.
	body := make([]byte, 0, len(payload)+len(req.apiName())+4)
	body = append(body, '{', '"')
	body = append(body, req.apiName()...)
	body = append(body, '"', ':')
	body = append(body, payload...)
	body = append(body, '}')

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: req.apiName(), Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			Op:  req.apiName(),
			Err: fmt.Errorf("unexpected status %d", httpResp.StatusCode),
		}
	}

	resp, err := ParseResponse(respBody)
	if err != nil {
		return nil, &TransportError{Op: "parse response", Err: err}
	}
	if !resp.Ok() {
		msg := resp.Message()
		c.logger.Warn("gateway returned non-Ok result",
			zap.String("request", req.apiName()),
			zap.String("result_code", resp.ResultCode),
			zap.String("message_code", msg.Code),
			zap.String("message_text", msg.Text),
		)
	}
	return resp, nil
}

// ParseResponse parses a raw gateway response body into a Response.
func ParseResponse(body []byte) (*Response, error) {
	// The gateway prefixes responses with a UTF-8 BOM.
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	var env struct {
		Messages struct {
			ResultCode string             `json:"resultCode"`
			Message    OneOrMany[Message] `json:"message"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("malformed response envelope: %w", err)
	}
	return &Response{
		ResultCode: env.Messages.ResultCode,
		Messages:   env.Messages.Message,
		Raw:        body,
	}, nil
}
