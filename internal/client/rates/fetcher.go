package ratesclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

const service = "exchange_rates"

type Fetcher struct {
	http    *http.Client
	baseURL string
}

// NewFetcher reads rates from an endpoint answering GET <url>?base=XXX with
// {"base":"XXX","rates":{"EUR":0.9,...}}.
func NewFetcher(baseURL string, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{http: client, baseURL: baseURL}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (f *Fetcher) Fetch(ctx context.Context, base string) (models.ExchangeRates, error) {
	if f.baseURL == "" {
		return nil, errs.NewValidationError("no exchange-rate source is configured")
	}
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return nil, errs.NewExternalServiceError(service, "invalid rates url", false, err)
	}
	q := u.Query()
	q.Set("base", strings.ToUpper(base))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errs.NewExternalServiceError(service, "build rates request", false, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, errs.NewExternalServiceError(service, "rates request failed", true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		transient := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, errs.NewExternalServiceError(service, fmt.Sprintf("rates source returned %d", resp.StatusCode), transient, nil)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errs.NewExternalServiceError(service, "decode rates response", false, err)
	}

	rates := models.ExchangeRates{}
	for code, rate := range body.Rates {
		if rate > 0 {
			rates[strings.ToUpper(code)] = rate
		}
	}
	rates[strings.ToUpper(base)] = 1
	return rates, nil
}
