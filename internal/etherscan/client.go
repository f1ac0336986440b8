// Package etherscan queries an Etherscan-compatible explorer API for ERC-20
// token balances. One synchronous attempt per lookup; no retry, no caching.
package etherscan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// USDC carries 6 decimal places on chain.
const usdcDecimals = 6

// UpstreamError covers both failure modes of a balance lookup: a failure
// reported by the explorer itself (Message/Result set, Err nil) and a
// transport or decode failure (Err set).
type UpstreamError struct {
	Message string
	Result  string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("balance lookup failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream error: %s (%s)", e.Message, e.Result)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Reported is true when the explorer answered with its own error status
// rather than the transport failing.
func (e *UpstreamError) Reported() bool {
	return e.Err == nil
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	contract   string
}

func New(baseURL, apiKey, contract string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		contract:   contract,
	}
}

// TokenBalance fetches the raw integer token balance for address under the
// configured contract and converts it to its decimal denomination.
func (c *Client) TokenBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("module", "account")
	q.Set("action", "tokenbalance")
	q.Set("contractaddress", c.contract)
	q.Set("address", address)
	q.Set("tag", "latest")
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, &UpstreamError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, &UpstreamError{Err: err}
	}

	status := gjson.GetBytes(body, "status").String()
	message := gjson.GetBytes(body, "message").String()
	result := gjson.GetBytes(body, "result").String()

	if status == "0" {
		return decimal.Zero, &UpstreamError{Message: message, Result: result}
	}

	raw, err := decimal.NewFromString(result)
	if err != nil {
		return decimal.Zero, &UpstreamError{Err: fmt.Errorf("unexpected balance result %q: %w", result, err)}
	}

	return raw.Shift(-usdcDecimals), nil
}
