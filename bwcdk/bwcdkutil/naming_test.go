//nolint:paralleltest // jsii runtime doesn't support parallel tests
package bwcdkutil_test

import (
	"testing"

	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdktest"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

func TestResourceName_DeploymentStack(t *testing.T) {
	defer jsii.Close()

	tests := []struct {
		name   string
		label  string
		casing bwcdkutil.Casing
		want   string
	}{
		{
			name:   "camel case",
			label:  "BuildProject",
			casing: bwcdkutil.CasingCamel,
			want:   "RiowonderDevBuildProject",
		},
		{
			name:   "lower camel case",
			label:  "BuildProject",
			casing: bwcdkutil.CasingLowerCamel,
			want:   "riowonderDevBuildProject",
		},
		{
			name:   "snake case",
			label:  "BuildProject",
			casing: bwcdkutil.CasingSnake,
			want:   "riowonder_dev_build_project",
		},
		{
			name:   "screaming snake case",
			label:  "BuildProject",
			casing: bwcdkutil.CasingScreamingSnake,
			want:   "RIOWONDER_DEV_BUILD_PROJECT",
		},
		{
			name:   "kebab case",
			label:  "BuildProject",
			casing: bwcdkutil.CasingKebab,
			want:   "riowonder-dev-build-project",
		},
		{
			name:   "screaming kebab case",
			label:  "BuildProject",
			casing: bwcdkutil.CasingScreamingKebab,
			want:   "RIOWONDER-DEV-BUILD-PROJECT",
		},
		{
			name:   "kebab label converted to camel",
			label:  "key-rds",
			casing: bwcdkutil.CasingCamel,
			want:   "RiowonderDevKeyRds",
		},
		{
			name:   "snake label converted to kebab",
			label:  "app_client",
			casing: bwcdkutil.CasingKebab,
			want:   "riowonder-dev-app-client",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, cfg := bwcdktest.NewApp(nil)
			stack := bwcdktest.NewDeploymentStack(app, cfg, "sa-east-1", "Kms", "Dev")

			got := bwcdkutil.ResourceName(stack, tt.label, tt.casing)
			if got != tt.want {
				t.Errorf("ResourceName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResourceName_SharedStack(t *testing.T) {
	defer jsii.Close()

	app, cfg := bwcdktest.NewApp(nil)
	stack := bwcdktest.NewSharedStack(app, cfg, "sa-east-1", "Dns")

	if got := bwcdkutil.ResourceName(stack, "HostedZone", bwcdkutil.CasingKebab); got != "riowonder-morador-hosted-zone" {
		t.Errorf("ResourceName() = %q, want %q", got, "riowonder-morador-hosted-zone")
	}
}

func TestEnvName(t *testing.T) {
	defer jsii.Close()

	app, cfg := bwcdktest.NewApp(nil)
	shared := bwcdktest.NewSharedStack(app, cfg, "sa-east-1", "Dns")
	prod := bwcdktest.NewDeploymentStack(app, cfg, "sa-east-1", "Bot", "Prod")

	if got := bwcdkutil.EnvName(shared); got != "morador" {
		t.Errorf("EnvName(shared) = %q, want %q", got, "morador")
	}
	if got := bwcdkutil.EnvName(prod); got != "prod" {
		t.Errorf("EnvName(prod) = %q, want %q", got, "prod")
	}
	if got := bwcdkutil.DeploymentIdent(prod); got != "Prod" {
		t.Errorf("DeploymentIdent(prod) = %q, want %q", got, "Prod")
	}
}
