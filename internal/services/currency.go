package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/pocket-ledger/internal/currency"
	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

type currencySettingsStore interface {
	CurrencySettings(ctx context.Context) (models.CurrencySettings, error)
	SaveCurrencySettings(ctx context.Context, settings models.CurrencySettings) error
	ExchangeRates(ctx context.Context) (models.ExchangeRates, error)
	SaveExchangeRates(ctx context.Context, rates models.ExchangeRates) error
}

type ratesSource interface {
	Fetch(ctx context.Context, base string) (models.ExchangeRates, error)
}

type currencyService struct {
	settings currencySettingsStore
	source   ratesSource
}

// NewCurrencyService builds the currency settings service. source may be nil
// when no rates endpoint is configured.
func NewCurrencyService(settings currencySettingsStore, source ratesSource) *currencyService {
	return &currencyService{settings: settings, source: source}
}

func (s *currencyService) GetSettings(ctx context.Context) (models.CurrencySettings, error) {
	return s.settings.CurrencySettings(ctx)
}

func (s *currencyService) SaveSettings(ctx context.Context, settings models.CurrencySettings) (models.CurrencySettings, error) {
	settings.BaseCurrency = currency.Normalize(settings.BaseCurrency, models.DefaultCurrency)
	settings.DefaultCurrency = currency.Normalize(settings.DefaultCurrency, settings.BaseCurrency)
	settings.ReportCurrency = currency.Normalize(settings.ReportCurrency, settings.BaseCurrency)
	for _, code := range []string{settings.BaseCurrency, settings.DefaultCurrency, settings.ReportCurrency} {
		if !currency.Known(code) {
			return settings, errs.NewValidationError("unknown currency code " + code)
		}
	}
	if err := s.settings.SaveCurrencySettings(ctx, settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// GetRates returns the stored table, or the built-in defaults when none was saved.
func (s *currencyService) GetRates(ctx context.Context) (models.ExchangeRates, error) {
	rates, err := s.settings.ExchangeRates(ctx)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return currency.DefaultRates, nil
	}
	return rates, nil
}

func (s *currencyService) SaveRates(ctx context.Context, rates models.ExchangeRates) (models.ExchangeRates, error) {
	clean := make(models.ExchangeRates, len(rates))
	for code, rate := range rates {
		if rate <= 0 {
			return nil, errs.NewValidationError("exchange rate for " + code + " must be positive")
		}
		clean[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	if err := s.settings.SaveExchangeRates(ctx, clean); err != nil {
		return nil, err
	}
	return clean, nil
}

// RefreshRates replaces the stored table with the remote one. On failure the
// stored table is left as it was.
func (s *currencyService) RefreshRates(ctx context.Context) (models.ExchangeRates, error) {
	if s.source == nil {
		return nil, errs.NewValidationError("no exchange-rate source is configured")
	}
	cs, err := s.settings.CurrencySettings(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := s.source.Fetch(ctx, cs.BaseCurrency)
	if err != nil {
		logger.FromContext(ctx).Warn("exchange rate refresh failed", "error", err)
		return nil, err
	}
	rates[currency.Normalize(cs.BaseCurrency, models.DefaultCurrency)] = 1
	if err := s.settings.SaveExchangeRates(ctx, rates); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("exchange rates refreshed", "codes", len(rates))
	return rates, nil
}

func (s *currencyService) Convert(ctx context.Context, amount, from, to string) (dto.Conversion, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return dto.Conversion{}, errs.NewValidationError("amount must be a number")
	}
	cs, err := s.settings.CurrencySettings(ctx)
	if err != nil {
		return dto.Conversion{}, err
	}
	rates, err := s.settings.ExchangeRates(ctx)
	if err != nil {
		return dto.Conversion{}, err
	}
	conv := currency.NewConverter(cs.BaseCurrency, rates)
	from = currency.Normalize(from, conv.Base())
	to = currency.Normalize(to, currency.Normalize(cs.ReportCurrency, conv.Base()))

	result := conv.Convert(value, from, to).Round(int32(currency.Decimals(to)))
	return dto.Conversion{
		Amount:    value,
		From:      from,
		To:        to,
		Result:    result,
		Formatted: currency.Format(result, to),
	}, nil
}
