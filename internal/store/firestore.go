package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/pocket-ledger/internal/errs"
)

type kvDoc struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type firestoreKV struct {
	client *firestore.Client
	ledger string
}

// NewFirestoreKV stores each key as a document under ledgers/{ledger}/kv.
func NewFirestoreKV(client *firestore.Client, ledger string) *firestoreKV {
	if ledger == "" {
		ledger = "local"
	}
	return &firestoreKV{client: client, ledger: ledger}
}

func (s *firestoreKV) collection() *firestore.CollectionRef {
	return s.client.Collection("ledgers").Doc(s.ledger).Collection("kv")
}

func (s *firestoreKV) Get(ctx context.Context, key string, dest any) (bool, error) {
	snap, err := s.collection().Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errs.NewDatabaseError("read", "failed to read "+key, err)
	}
	var doc kvDoc
	if err := snap.DataTo(&doc); err != nil {
		return false, errs.NewDatabaseError("read", "failed to parse "+key, err)
	}
	if err := decode(key, []byte(doc.Value), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *firestoreKV) Set(ctx context.Context, key string, value any) error {
	b, err := encode(key, value)
	if err != nil {
		return err
	}
	_, err = s.collection().Doc(key).Set(ctx, kvDoc{Value: string(b), UpdatedAt: time.Now()})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to write "+key, err)
	}
	return nil
}

func (s *firestoreKV) SetMany(ctx context.Context, values map[string]any) error {
	encoded, err := encodeAll(values)
	if err != nil {
		return err
	}
	now := time.Now()
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for k, b := range encoded {
			if err := tx.Set(s.collection().Doc(k), kvDoc{Value: string(b), UpdatedAt: now}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to write batch", err)
	}
	return nil
}

func (s *firestoreKV) Delete(ctx context.Context, key string) error {
	if _, err := s.collection().Doc(key).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete "+key, err)
	}
	return nil
}
