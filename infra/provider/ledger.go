package provider

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// SetupLedgerProvider configures the GCP provider for the ledger stack.
// project and region come from the stack's own config and fall back to gcp:project
// and gcp:region.
func SetupLedgerProvider(ctx *pulumi.Context) (*gcp.Provider, error) {
	stackCfg := config.New(ctx, "")
	gcpCfg := config.New(ctx, "gcp")

	projectID := stackCfg.Get("project")
	if projectID == "" {
		projectID = gcpCfg.Require("project")
	}
	region := stackCfg.Get("region")
	if region == "" {
		region = gcpCfg.Require("region")
	}

	return gcp.NewProvider(ctx, "ledgerProvider", &gcp.ProviderArgs{
		Project:             pulumi.String(projectID),
		Region:              pulumi.String(region),
		UserProjectOverride: pulumi.Bool(true),
		DefaultLabels: pulumi.StringMap{
			"app": pulumi.String("pocket-ledger"),
		},
	})
}
