package gcsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

const uploadTimeout = 2 * time.Minute

type Uploader struct {
	bucket string
	prefix string
	auto   bool
	now    func() time.Time
	open   func(ctx context.Context, object string) io.WriteCloser
}

// NewUploader uploads backups to bucket under prefix. The client may be nil,
// in which case the uploader reports itself as disconnected. Object names are
// dated by now, which should report wall time in the user's timezone.
func NewUploader(client *storage.Client, bucket, prefix string, auto bool, now func() time.Time) *Uploader {
	if now == nil {
		now = time.Now
	}
	u := &Uploader{bucket: bucket, prefix: prefix, auto: auto, now: now}
	if client != nil {
		u.open = func(ctx context.Context, object string) io.WriteCloser {
			w := client.Bucket(bucket).Object(object).NewWriter(ctx)
			w.ContentType = "application/json"
			return w
		}
	}
	return u
}

func (u *Uploader) IsConnected() bool {
	return u.open != nil && u.bucket != ""
}

func (u *Uploader) AutoUploadEnabled() bool {
	return u.auto
}

func (u *Uploader) UploadBackup(ctx context.Context, doc *models.BackupDocument) dto.UploadResult {
	if !u.IsConnected() {
		return dto.UploadResult{Error: "cloud storage is not connected"}
	}
	if doc == nil {
		return dto.UploadResult{Error: "no backup document"}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return dto.UploadResult{Error: fmt.Sprintf("serialize backup: %v", err)}
	}
	name := models.BackupFileName(u.now())
	object := path.Join(u.prefix, name)

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := u.open(ctx, object)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return dto.UploadResult{FileName: name, Error: fmt.Sprintf("write object: %v", err)}
	}
	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return dto.UploadResult{FileName: name, Error: fmt.Sprintf("finalize upload: %v", err)}
	}

	logger.FromContext(ctx).Info("backup uploaded", "bucket", u.bucket, "object", object, "bytes", len(data))
	return dto.UploadResult{Success: true, FileName: name}
}
