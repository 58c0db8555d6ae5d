package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/pocket-ledger/internal/currency"
	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

const (
	uncategorized = "Uncategorized"
	unspecified   = "Unspecified"
)

type statsTxStore interface {
	List(ctx context.Context) ([]models.Transaction, error)
}

type statsSettingsStore interface {
	CurrencySettings(ctx context.Context) (models.CurrencySettings, error)
	ExchangeRates(ctx context.Context) (models.ExchangeRates, error)
}

type statsAccountStore interface {
	ActiveID(ctx context.Context) (string, error)
}

type statsService struct {
	txs      statsTxStore
	settings statsSettingsStore
	accounts statsAccountStore
}

func NewStatsService(txs statsTxStore, settings statsSettingsStore, accounts statsAccountStore) *statsService {
	return &statsService{txs: txs, settings: settings, accounts: accounts}
}

func (s *statsService) GetStats(ctx context.Context, args dto.StatsArgs) (dto.Stats, error) {
	bucket := args.Bucket
	if bucket == "" {
		bucket = dto.BucketMonthly
	}
	if err := validateBucket(bucket); err != nil {
		return dto.Stats{}, err
	}

	cs, err := s.settings.CurrencySettings(ctx)
	if err != nil {
		return dto.Stats{}, err
	}
	rates, err := s.settings.ExchangeRates(ctx)
	if err != nil {
		return dto.Stats{}, err
	}
	active, err := s.accounts.ActiveID(ctx)
	if err != nil {
		return dto.Stats{}, err
	}
	txs, err := s.txs.List(ctx)
	if err != nil {
		return dto.Stats{}, err
	}

	conv := currency.NewConverter(cs.BaseCurrency, rates)
	target := currency.Normalize(args.Currency, currency.Normalize(cs.ReportCurrency, conv.Base()))
	return ComputeStats(applyFilter(txs, args.Filter, active), conv, target, bucket), nil
}

func validateBucket(bucket string) error {
	switch bucket {
	case dto.BucketDaily, dto.BucketWeekly, dto.BucketMonthly, dto.BucketYearly:
		return nil
	default:
		return errs.NewValidationError("bucket must be one of daily, weekly, monthly, yearly")
	}
}

type breakdown map[string]*dto.BreakdownItem

func (b breakdown) add(key string, amount decimal.Decimal) {
	item, ok := b[key]
	if !ok {
		item = &dto.BreakdownItem{Key: key}
		b[key] = item
	}
	item.Amount = item.Amount.Add(amount)
	item.Count++
}

// ComputeStats aggregates txs converted into target. Transactions with an
// unusable amount or date are counted in Skipped and otherwise ignored.
func ComputeStats(txs []models.Transaction, conv *currency.Converter, target, bucket string) dto.Stats {
	stats := dto.Stats{
		Currency: target,
		Bucket:   bucket,
	}
	places := int32(currency.Decimals(target))

	byCategory, byPayment, byPayee, byStatus := breakdown{}, breakdown{}, breakdown{}, breakdown{}
	series := map[string]*dto.SeriesPoint{}
	used := map[string]struct{}{}

	for _, tx := range txs {
		used[currency.Normalize(tx.Currency, conv.Base())] = struct{}{}

		amount, err := tx.Amount.Decimal()
		if err != nil || !amount.IsPositive() {
			stats.Skipped++
			continue
		}
		key, ok := bucketKey(tx.Date, bucket)
		if !ok {
			stats.Skipped++
			continue
		}
		converted := conv.Convert(amount, tx.Currency, target)
		stats.Count++

		point, ok := series[key]
		if !ok {
			point = &dto.SeriesPoint{Key: key}
			series[key] = point
		}

		switch tx.Type {
		case models.TypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(converted)
			point.Income = point.Income.Add(converted)
		case models.TypeExpense:
			stats.TotalExpenses = stats.TotalExpenses.Add(converted)
			point.Expenses = point.Expenses.Add(converted)
			byCategory.add(labelOr(tx.Category, uncategorized), converted)
			byPayment.add(labelOr(tx.PaymentMethod, unspecified), converted)
			byPayee.add(labelOr(tx.Payee, unspecified), converted)
		}
		byStatus.add(labelOr(tx.Status, unspecified), converted)
	}

	stats.TotalIncome = stats.TotalIncome.Round(places)
	stats.TotalExpenses = stats.TotalExpenses.Round(places)
	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpenses)
	stats.ByCategory = breakdownItems(byCategory, places)
	stats.ByPaymentMethod = breakdownItems(byPayment, places)
	stats.ByPayee = breakdownItems(byPayee, places)
	stats.ByStatus = breakdownItems(byStatus, places)
	stats.Series = seriesPoints(series, places)

	stats.UsedCurrencies = make([]string, 0, len(used))
	for code := range used {
		stats.UsedCurrencies = append(stats.UsedCurrencies, code)
	}
	sort.Strings(stats.UsedCurrencies)
	stats.MultiCurrency = len(stats.UsedCurrencies) > 1 ||
		(len(stats.UsedCurrencies) == 1 && stats.UsedCurrencies[0] != target)
	return stats
}

func labelOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// breakdownItems computes percents against the breakdown's own sum and orders
// items by amount descending, then key.
func breakdownItems(items breakdown, places int32) []dto.BreakdownItem {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Amount)
	}
	out := make([]dto.BreakdownItem, 0, len(items))
	for _, item := range items {
		it := *item
		if sum.IsPositive() {
			it.Percent = it.Amount.Div(sum).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		}
		it.Amount = it.Amount.Round(places)
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func seriesPoints(series map[string]*dto.SeriesPoint, places int32) []dto.SeriesPoint {
	out := make([]dto.SeriesPoint, 0, len(series))
	for _, p := range series {
		pt := *p
		pt.Income = pt.Income.Round(places)
		pt.Expenses = pt.Expenses.Round(places)
		pt.Balance = pt.Income.Sub(pt.Expenses)
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// bucketKey derives the series key from the YYYY-MM-DD string itself. The
// weekly key is the Monday of the date's week.
func bucketKey(date, bucket string) (string, bool) {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", false
	}
	switch bucket {
	case dto.BucketDaily:
		return date, true
	case dto.BucketWeekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset).Format(models.DateLayout), true
	case dto.BucketYearly:
		return date[:4], true
	default:
		return date[:7], true
	}
}
