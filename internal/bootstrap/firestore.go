package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

func InitFirestore(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	return firestore.NewClient(ctx, projectID, clientOptions(credentialsFile)...)
}

func clientOptions(credentialsFile string) []option.ClientOption {
	if credentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}
}
