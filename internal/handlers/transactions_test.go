package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

type stubTransactionService struct {
	listFilter dto.TransactionFilter
	created    *models.Transaction
	updatedID  string
	deletedID  string
	getID      string
	err        error
}

func (s *stubTransactionService) List(ctx context.Context, f dto.TransactionFilter) ([]models.Transaction, error) {
	s.listFilter = f
	return []models.Transaction{{ID: "t1"}}, s.err
}

func (s *stubTransactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	s.getID = id
	if s.err != nil {
		return nil, s.err
	}
	return &models.Transaction{ID: id}, nil
}

func (s *stubTransactionService) Create(ctx context.Context, tx models.Transaction) (*models.Transaction, error) {
	s.created = &tx
	if s.err != nil {
		return nil, s.err
	}
	tx.ID = "new"
	return &tx, nil
}

func (s *stubTransactionService) Update(ctx context.Context, id string, tx models.Transaction) (*models.Transaction, error) {
	s.updatedID = id
	return &tx, s.err
}

func (s *stubTransactionService) Delete(ctx context.Context, id string) error {
	s.deletedID = id
	return s.err
}

func (s *stubTransactionService) ExportCSV(ctx context.Context, f dto.TransactionFilter, w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, "id,date\nt1,2024-01-01\n")
	return err
}

func TestCreateTransactionSuccess(t *testing.T) {
	svc := &stubTransactionService{}
	resp := &stubResponseHandler{}
	h := NewTransactionHandlers(&Deps{ResponseHandler: resp, TransactionSvc: svc})

	body := `{"type":"expense","amount":"12.50","date":"2024-03-01","category":"Food"}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateTransaction(rr, req)

	if svc.created == nil {
		t.Fatalf("expected Create to be called on service")
	}
	if svc.created.Amount != "12.50" || svc.created.Category != "Food" {
		t.Fatalf("service received wrong transaction: %+v", svc.created)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("WriteSuccess not called with status 201")
	}
}

func TestCreateTransactionInvalidJSON(t *testing.T) {
	svc := &stubTransactionService{}
	resp := &stubResponseHandler{}
	h := NewTransactionHandlers(&Deps{ResponseHandler: resp, TransactionSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader("not-json"))
	rr := httptest.NewRecorder()
	h.CreateTransaction(rr, req)

	if svc.created != nil {
		t.Fatalf("Create should not be called when JSON invalid")
	}
	var ve *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestListTransactionsParsesFilter(t *testing.T) {
	svc := &stubTransactionService{}
	resp := &stubResponseHandler{}
	h := NewTransactionHandlers(&Deps{ResponseHandler: resp, TransactionSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/transactions?account=all&status=Pending&from=2024-01-01&payee=", nil)
	rr := httptest.NewRecorder()
	h.ListTransactions(rr, req)

	f := svc.listFilter
	if f.AccountID == nil || *f.AccountID != dto.AllAccounts {
		t.Fatalf("account filter = %v", f.AccountID)
	}
	if f.Status == nil || *f.Status != "Pending" || f.DateFrom == nil || *f.DateFrom != "2024-01-01" {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if f.Payee != nil || f.Category != nil {
		t.Fatalf("blank params should stay unset: %+v", f)
	}
	if !resp.writeSuccessCalled {
		t.Fatalf("WriteSuccess not called")
	}
}

func TestGetTransactionUsesURLParam(t *testing.T) {
	svc := &stubTransactionService{err: errs.NewNotFoundError("transaction not found")}
	resp := &stubResponseHandler{}
	h := NewTransactionHandlers(&Deps{ResponseHandler: resp, TransactionSvc: svc})

	req := withChiParams(httptest.NewRequest(http.MethodGet, "/transactions/abc", nil), "id", "abc")
	rr := httptest.NewRecorder()
	h.GetTransaction(rr, req)

	if svc.getID != "abc" {
		t.Fatalf("service received id %q", svc.getID)
	}
	if !resp.handleErrorCalled || resp.writeSuccessCalled {
		t.Fatalf("expected HandleError only")
	}
}

func TestExportCSVWritesBody(t *testing.T) {
	svc := &stubTransactionService{}
	resp := &stubResponseHandler{}
	h := NewTransactionHandlers(&Deps{ResponseHandler: resp, TransactionSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/transactions/export.csv", nil)
	rr := httptest.NewRecorder()
	h.ExportCSV(rr, req)

	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.HasPrefix(rr.Body.String(), "id,date") {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
	if resp.writeSuccessCalled || resp.handleErrorCalled {
		t.Fatalf("csv export should bypass the envelope")
	}
}
