package gcsclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/pkg/helpers"
)

type bufferWriter struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (b *bufferWriter) Close() error {
	b.closed = true
	return b.closeErr
}

var uploadNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestUploader(w *bufferWriter, objects *[]string, now time.Time) *Uploader {
	u := NewUploader(nil, "ledger-backups", "daily", true, helpers.FixedClock(now))
	u.open = func(ctx context.Context, object string) io.WriteCloser {
		*objects = append(*objects, object)
		return w
	}
	return u
}

func TestDisconnectedWithoutClient(t *testing.T) {
	u := NewUploader(nil, "bucket", "", true, nil)
	if u.IsConnected() {
		t.Fatalf("uploader without a client should be disconnected")
	}
	res := u.UploadBackup(helpers.TestCtx(), &models.BackupDocument{})
	if res.Success || res.Error == "" {
		t.Fatalf("expected failure, got %+v", res)
	}
}

func TestUploadBackupWritesObject(t *testing.T) {
	w := &bufferWriter{}
	var objects []string
	u := newTestUploader(w, &objects, uploadNow)

	doc := &models.BackupDocument{Meta: models.BackupMeta{
		Version:   models.CurrentBackupVersion,
		CreatedAt: uploadNow,
	}}
	res := u.UploadBackup(helpers.TestCtx(), doc)

	if !res.Success || res.FileName != "pocket-ledger-backup-2024-03-01.json" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(objects) != 1 || objects[0] != "daily/pocket-ledger-backup-2024-03-01.json" {
		t.Fatalf("unexpected objects %v", objects)
	}
	if !w.closed || !strings.Contains(w.String(), `"version": "2.0"`) {
		t.Fatalf("object not finalized or wrong payload: %s", w.String())
	}
}

func TestUploadBackupNamedByLocalDate(t *testing.T) {
	w := &bufferWriter{}
	var objects []string
	created := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	auckland := time.FixedZone("NZDT", 13*60*60)
	u := newTestUploader(w, &objects, created.In(auckland))

	res := u.UploadBackup(helpers.TestCtx(), &models.BackupDocument{Meta: models.BackupMeta{CreatedAt: created}})
	if !res.Success || res.FileName != "pocket-ledger-backup-2024-03-02.json" {
		t.Fatalf("expected local-date file name, got %+v", res)
	}
	if len(objects) != 1 || objects[0] != "daily/pocket-ledger-backup-2024-03-02.json" {
		t.Fatalf("unexpected objects %v", objects)
	}
}

func TestUploadBackupFinalizeError(t *testing.T) {
	w := &bufferWriter{closeErr: errors.New("permission denied")}
	var objects []string
	u := newTestUploader(w, &objects, uploadNow)

	res := u.UploadBackup(helpers.TestCtx(), &models.BackupDocument{})
	if res.Success || !strings.Contains(res.Error, "permission denied") {
		t.Fatalf("expected finalize error, got %+v", res)
	}
}
