package services

import (
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/internal/store"
	"github.com/GregMSThompson/pocket-ledger/pkg/helpers"
)

func newTagFixture(t *testing.T, txs []models.Transaction) (*tagService, *fakeTxStore) {
	t.Helper()
	kv := store.NewMemoryKV()
	txStore := &fakeTxStore{txs: txs}
	txSvc := NewTransactionService(txStore, newFakeSettings(), &fakeAccountStore{activeID: models.DefaultAccountID}, helpers.FixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	return NewTagService(store.NewTagStore(kv), txSvc), txStore
}

func TestRenameCategoryCascades(t *testing.T) {
	txs := []models.Transaction{
		{ID: "1", Category: "Food"},
		{ID: "2", Category: "Food"},
		{ID: "3", Category: "Transport"},
		{ID: "4", Category: "food"},
	}
	svc, txStore := newTagFixture(t, txs)

	got, err := svc.Update(helpers.TestCtx(), models.TagCategories, "Food", dto.UpdateTagRequest{Name: "Groceries"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.UpdatedTransactions != 2 || got.Tag.Name != "Groceries" {
		t.Fatalf("result = %+v", got)
	}
	want := map[string]string{"1": "Groceries", "2": "Groceries", "3": "Transport", "4": "food"}
	for _, tx := range txStore.txs {
		if tx.Category != want[tx.ID] {
			t.Fatalf("tx %s category = %q, want %q", tx.ID, tx.Category, want[tx.ID])
		}
	}
}

func TestRenameToExistingNameConflicts(t *testing.T) {
	svc, txStore := newTagFixture(t, []models.Transaction{{ID: "1", Category: "Food"}})

	_, err := svc.Update(helpers.TestCtx(), models.TagCategories, "Food", dto.UpdateTagRequest{Name: "transport"})
	var conflict *errs.AlreadyExistsError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if txStore.txs[0].Category != "Food" {
		t.Fatalf("conflicting rename touched transactions")
	}
}

func TestBuiltInStatusesProtected(t *testing.T) {
	svc, _ := newTagFixture(t, nil)
	ctx := helpers.TestCtx()

	if _, err := svc.Update(ctx, models.TagStatuses, models.StatusPending, dto.UpdateTagRequest{Name: "Waiting"}); err == nil {
		t.Fatalf("expected rename of Pending to fail")
	}
	if err := svc.Delete(ctx, models.TagStatuses, models.StatusDone); err == nil {
		t.Fatalf("expected delete of Done to fail")
	}
}

func TestAddRejectsDuplicateIgnoringCase(t *testing.T) {
	svc, _ := newTagFixture(t, nil)
	ctx := helpers.TestCtx()

	if _, err := svc.Add(ctx, models.TagPayees, models.Tag{Name: "Landlord"}); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := svc.Add(ctx, models.TagPayees, models.Tag{Name: "landlord"}); err == nil {
		t.Fatalf("expected duplicate to fail")
	}
	list, _ := svc.List(ctx, models.TagPayees)
	if len(list) != 1 {
		t.Fatalf("payees = %+v", list)
	}
}

func TestDeleteTagLeavesTransactions(t *testing.T) {
	svc, txStore := newTagFixture(t, []models.Transaction{{ID: "1", Category: "Food"}})

	if err := svc.Delete(helpers.TestCtx(), models.TagCategories, "Food"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if txStore.saves != 0 || txStore.txs[0].Category != "Food" {
		t.Fatalf("delete must not touch transactions")
	}
}

func TestResolveSuggests(t *testing.T) {
	svc, _ := newTagFixture(t, nil)
	ctx := helpers.TestCtx()

	got, err := svc.Resolve(ctx, models.TagCategories, "food")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Match == nil || got.Match.Name != "Food" {
		t.Fatalf("expected case-insensitive match, got %+v", got)
	}

	got, _ = svc.Resolve(ctx, models.TagCategories, "Fod")
	if got.Match != nil || len(got.Suggestions) == 0 || got.Suggestions[0] != "Food" {
		t.Fatalf("suggestions = %+v", got)
	}
}

func TestUnknownTagKind(t *testing.T) {
	svc, _ := newTagFixture(t, nil)
	if _, err := svc.List(helpers.TestCtx(), "colors"); err == nil {
		t.Fatalf("expected validation error")
	}
}
