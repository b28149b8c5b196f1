package emailcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Outcome is the deliverability verdict for an address.
type Outcome string

const (
	OutcomeDeliverable   Outcome = "deliverable"
	OutcomeUndeliverable Outcome = "undeliverable"
	OutcomeRisky         Outcome = "risky"
	OutcomeUnknown       Outcome = "unknown"
)

// Verifier checks whether an address can actually receive mail.
type Verifier interface {
	Verify(ctx context.Context, email string) (Outcome, error)
}

// HTTPVerifier calls a Hunter-compatible email-verifier endpoint.
type HTTPVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPVerifier creates a verifier against the given base URL.
func NewHTTPVerifier(baseURL, apiKey string) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type verifierResponse struct {
	Data struct {
		Result string `json:"result"`
	} `json:"data"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, email string) (Outcome, error) {
	endpoint := fmt.Sprintf("%s/v2/email-verifier?email=%s&api_key=%s",
		v.baseURL, url.QueryEscape(email), url.QueryEscape(v.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return OutcomeUnknown, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return OutcomeUnknown, fmt.Errorf("verifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return OutcomeUnknown, fmt.Errorf("verifier status %d", resp.StatusCode)
	}

	var result verifierResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return OutcomeUnknown, fmt.Errorf("decode verifier response: %w", err)
	}

	switch result.Data.Result {
	case "deliverable":
		return OutcomeDeliverable, nil
	case "undeliverable":
		return OutcomeUndeliverable, nil
	case "risky":
		return OutcomeRisky, nil
	default:
		return OutcomeUnknown, nil
	}
}
