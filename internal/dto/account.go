package dto

type AccountRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type SetActiveAccountRequest struct {
	AccountID string `json:"accountId"`
}

type DeleteAccountResult struct {
	AccountID           string `json:"accountId"`
	RemovedTransactions int    `json:"removedTransactions"`
}
