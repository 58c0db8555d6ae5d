package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// Statuses with reminder semantics. Other statuses may exist in the tag registry.
const (
	StatusDone     = "Done"
	StatusPending  = "Pending"
	StatusInFuture = "InFuture"
)

type ReminderType string

const (
	ReminderNone           ReminderType = "none"
	ReminderAlways         ReminderType = "always"
	ReminderCustomDuration ReminderType = "custom_duration"
	ReminderSpecificDate   ReminderType = "specific_date"
)

type ReminderUnit string

const (
	UnitDays   ReminderUnit = "days"
	UnitWeeks  ReminderUnit = "weeks"
	UnitMonths ReminderUnit = "months"
)

const (
	DefaultCurrency  = "USD"
	DefaultAccountID = "default"
)

type Transaction struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"type"`
	Amount        Amount          `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	Date          string          `json:"date"` // YYYY-MM-DD, local wall-clock date
	Status        string          `json:"status,omitempty"`
	Category      string          `json:"category,omitempty"`
	Payee         string          `json:"payee,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Description   string          `json:"description,omitempty"`

	ReminderType  ReminderType `json:"reminderType,omitempty"`
	ReminderValue FlexNumber   `json:"reminderValue,omitempty"`
	ReminderUnit  ReminderUnit `json:"reminderUnit,omitempty"`
	ReminderDate  string       `json:"reminderDate,omitempty"`
	// ReminderFrequency is the pre-reminderType field. It is only read when loading
	// older data and is cleared by normalization.
	ReminderFrequency string `json:"reminderFrequency,omitempty"`

	AccountID     string    `json:"accountId,omitempty"`
	InvoiceImages []string  `json:"invoiceImages,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ParsedDate returns the transaction date at local midnight in loc.
func (t *Transaction) ParsedDate(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, t.Date, loc)
}

// Amount keeps the raw textual amount so that records written as either a JSON
// string or a JSON number round-trip unchanged, and a single malformed value does
// not fail decoding of the whole transaction list.
type Amount string

var errInvalidAmount = errors.New("amount must be a finite positive number")

func NewAmount(d decimal.Decimal) Amount {
	return Amount(d.String())
}

func (a Amount) Decimal() (decimal.Decimal, error) {
	if a == "" {
		return decimal.Zero, errInvalidAmount
	}
	d, err := decimal.NewFromString(string(a))
	if err != nil {
		return decimal.Zero, errInvalidAmount
	}
	return d, nil
}

// Valid reports whether the amount parses to a positive number.
func (a Amount) Valid() bool {
	d, err := a.Decimal()
	return err == nil && d.IsPositive()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if d, err := a.Decimal(); err == nil {
		return []byte(d.String()), nil
	}
	return json.Marshal(string(a))
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s, err := unmarshalNumberText(b)
	if err != nil {
		return err
	}
	*a = Amount(s)
	return nil
}

// FlexNumber is a numeric field that older records stored either as a string or
// as a number.
type FlexNumber string

// Int returns the integer value, or false when the field is empty or malformed.
func (n FlexNumber) Int() (int, bool) {
	d, ok := n.decimal()
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}

func (n FlexNumber) decimal() (decimal.Decimal, bool) {
	if n == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(string(n)))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if d, ok := n.decimal(); ok {
		return []byte(d.String()), nil
	}
	return json.Marshal(string(n))
}

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	s, err := unmarshalNumberText(b)
	if err != nil {
		return err
	}
	*n = FlexNumber(s)
	return nil
}

func unmarshalNumberText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(b), nil
}
