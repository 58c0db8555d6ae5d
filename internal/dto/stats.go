package dto

import "github.com/shopspring/decimal"

// Time buckets for the stats series.
const (
	BucketDaily   = "daily"
	BucketWeekly  = "weekly"
	BucketMonthly = "monthly"
	BucketYearly  = "yearly"
)

type StatsArgs struct {
	Filter   TransactionFilter
	Currency string // target currency; blank uses the report currency setting
	Bucket   string // blank means monthly
}

type BreakdownItem struct {
	Key     string          `json:"key"`
	Amount  decimal.Decimal `json:"amount"`
	Percent float64         `json:"percent"`
	Count   int             `json:"count"`
}

type SeriesPoint struct {
	Key      string          `json:"key"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

type Stats struct {
	Currency        string          `json:"currency"`
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	Balance         decimal.Decimal `json:"balance"`
	Count           int             `json:"count"`
	Skipped         int             `json:"skipped"`
	ByCategory      []BreakdownItem `json:"byCategory"`
	ByPaymentMethod []BreakdownItem `json:"byPaymentMethod"`
	ByPayee         []BreakdownItem `json:"byPayee"`
	ByStatus        []BreakdownItem `json:"byStatus"`
	Bucket          string          `json:"bucket"`
	Series          []SeriesPoint   `json:"series"`
	UsedCurrencies  []string        `json:"usedCurrencies"`
	MultiCurrency   bool            `json:"multiCurrency"`
}
