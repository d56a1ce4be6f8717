package loyalty

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dcastano/turnero/internal/domain/providers"
	apperrors "github.com/dcastano/turnero/pkg/errors"
	"github.com/dcastano/turnero/pkg/retry"
)

const defaultHTTPTimeout = 8 * time.Second

// HTTPLoyaltyProvider credits points through the loyalty service's REST API.
type HTTPLoyaltyProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPLoyaltyProvider creates a new HTTP loyalty provider.
func NewHTTPLoyaltyProvider(baseURL, apiKey string) providers.LoyaltyProvider {
	return NewHTTPLoyaltyProviderWithClient(baseURL, apiKey, nil)
}

// NewHTTPLoyaltyProviderWithClient allows overriding the HTTP client (used for tests).
func NewHTTPLoyaltyProviderWithClient(baseURL, apiKey string, httpClient *http.Client) providers.LoyaltyProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPLoyaltyProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type creditRequest struct {
	AccountID     string `json:"account_id"`
	Points        int    `json:"points"`
	ReservationID string `json:"reservation_id"`
}

// Credit adds points to the customer account. The reservation ID doubles as
// an idempotency key so retries cannot double-credit.
func (p *HTTPLoyaltyProvider) Credit(ctx context.Context, customerAccountID string, points int, reservationID string) error {
	payload, err := json.Marshal(creditRequest{
		AccountID:     customerAccountID,
		Points:        points,
		ReservationID: reservationID,
	})
	if err != nil {
		return apperrors.NewInternalError("failed to encode loyalty credit request", err)
	}

	cfg := retry.BriefConfig()
	return retry.DoWithLog(ctx, cfg, "loyalty", func() error {
		return p.doCredit(ctx, payload, reservationID)
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Str("reservation_id", reservationID).
			Msg("loyalty credit failed, retrying")
	})
}

func (p *HTTPLoyaltyProvider) doCredit(ctx context.Context, payload []byte, reservationID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/credits", bytes.NewReader(payload))
	if err != nil {
		return apperrors.NewInternalError("failed to build loyalty credit request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Idempotency-Key", reservationID)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("loyalty service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return apperrors.NewExternalError(fmt.Sprintf("loyalty service returned status %d", resp.StatusCode), nil)
}
