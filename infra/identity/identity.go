package identity

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/storage"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// SetupLedgerIdentity creates the service account the local app runs as. It can
// read and write Firestore and create objects in the backup bucket, and its key
// is returned for GOOGLECREDENTIALS.
func SetupLedgerIdentity(ctx *pulumi.Context, prov *gcp.Provider, bucket *storage.Bucket) (pulumi.StringOutput, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	sa, err := serviceaccount.NewAccount(ctx, "ledgerServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("pocket-ledger"),
		DisplayName: pulumi.String("Pocket Ledger"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return pulumi.StringOutput{}, err
	}

	member := sa.Email.ApplyT(func(email string) string {
		return fmt.Sprintf("serviceAccount:%s", email)
	}).(pulumi.StringOutput)

	_, err = projects.NewIAMMember(ctx, "firestoreAccess", &projects.IAMMemberArgs{
		Role:    pulumi.String("roles/datastore.user"), // Firestore read/write
		Member:  member,
		Project: pulumi.String(projectID),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return pulumi.StringOutput{}, err
	}

	_, err = storage.NewBucketIAMMember(ctx, "backupWriter", &storage.BucketIAMMemberArgs{
		Bucket: bucket.Name,
		Role:   pulumi.String("roles/storage.objectCreator"),
		Member: member,
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return pulumi.StringOutput{}, err
	}

	key, err := serviceaccount.NewKey(ctx, "ledgerServiceAccountKey", &serviceaccount.KeyArgs{
		ServiceAccountId: sa.Name,
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return pulumi.StringOutput{}, err
	}
	return key.PrivateKey, nil
}
