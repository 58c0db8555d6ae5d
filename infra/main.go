package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/pocket-ledger/infra/firestore"
	"github.com/GregMSThompson/pocket-ledger/infra/identity"
	"github.com/GregMSThompson/pocket-ledger/infra/provider"
	"github.com/GregMSThompson/pocket-ledger/infra/storage"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		cfg := config.New(ctx, "")
		retention := cfg.GetInt("backupRetentionDays")
		if retention == 0 {
			retention = 90
		}

		// provider scoped to the ledger project
		prov, err := provider.SetupLedgerProvider(ctx)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// bucket for scheduled backups
		bucket, err := storage.SetupBackupBucket(ctx, prov, retention)
		if err != nil {
			return err
		}

		// service account used by the local app
		key, err := identity.SetupLedgerIdentity(ctx, prov, bucket)
		if err != nil {
			return err
		}

		ctx.Export("backupBucket", bucket.Name)
		ctx.Export("serviceAccountKey", pulumi.ToSecret(key))
		return nil
	})
}
