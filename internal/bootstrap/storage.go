package bootstrap

import (
	"context"

	"cloud.google.com/go/storage"
)

func InitStorage(ctx context.Context, credentialsFile string) (*storage.Client, error) {
	return storage.NewClient(ctx, clientOptions(credentialsFile)...)
}
