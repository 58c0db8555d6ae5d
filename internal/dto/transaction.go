package dto

// AllAccounts selects transactions from every account.
const AllAccounts = "all"

// TransactionFilter narrows a transaction set. Nil fields do not filter.
// A nil AccountID means the active account.
type TransactionFilter struct {
	AccountID     *string
	Type          *string
	Status        *string
	Category      *string
	Payee         *string
	PaymentMethod *string
	Currency      *string
	DateFrom      *string
	DateTo        *string
}
