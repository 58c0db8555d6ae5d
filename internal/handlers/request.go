package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/pkg/helpers"
)

const maxBodyBytes = 32 << 20

func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dest); err != nil {
		return errs.NewValidationError("invalid request body")
	}
	return nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.NewValidationError("could not read request body")
	}
	return body, nil
}

func filterFromQuery(q url.Values) dto.TransactionFilter {
	return dto.TransactionFilter{
		AccountID:     helpers.NonBlank(q.Get("account")),
		Type:          helpers.NonBlank(q.Get("type")),
		Status:        helpers.NonBlank(q.Get("status")),
		Category:      helpers.NonBlank(q.Get("category")),
		Payee:         helpers.NonBlank(q.Get("payee")),
		PaymentMethod: helpers.NonBlank(q.Get("paymentMethod")),
		Currency:      helpers.NonBlank(q.Get("currency")),
		DateFrom:      helpers.NonBlank(q.Get("from")),
		DateTo:        helpers.NonBlank(q.Get("to")),
	}
}
