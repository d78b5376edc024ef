package paramstore_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/basewarphq/morador/paramstore"
	"github.com/cockroachdb/errors"
)

type fakeSSM struct {
	values map[string]string
	gotIn  *ssm.GetParameterInput
}

func (f *fakeSSM) GetParameter(
	_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options),
) (*ssm.GetParameterOutput, error) {
	f.gotIn = in
	v, ok := f.values[*in.Name]
	if !ok {
		return nil, &types.ParameterNotFound{Message: aws.String("nope")}
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: in.Name, Value: aws.String(v)}}, nil
}

func TestPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env, name, want string
	}{
		{"dev", "zone-id", "/dev/zone-id"},
		{"Prod", "api-gw-url", "/prod/api-gw-url"},
		{"Dev", "/bot-webhook-url", "/dev/bot-webhook-url"},
	}
	for _, tt := range tests {
		if got := paramstore.Path(tt.env, tt.name); got != tt.want {
			t.Errorf("Path(%q, %q) = %q, want %q", tt.env, tt.name, got, tt.want)
		}
	}
}

func TestReaderGet(t *testing.T) {
	t.Parallel()

	api := &fakeSSM{values: map[string]string{"/dev/bot-webhook-url": "https://example.com/telegram/webhook"}}
	rdr := paramstore.NewReader(api)

	got, err := rdr.Get(t.Context(), "Dev", "bot-webhook-url")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "https://example.com/telegram/webhook" {
		t.Errorf("Get() = %q", got)
	}
	if !*api.gotIn.WithDecryption {
		t.Error("expected WithDecryption to be set")
	}
}

func TestReaderGetNotFound(t *testing.T) {
	t.Parallel()

	rdr := paramstore.NewReader(&fakeSSM{values: map[string]string{}})

	_, err := rdr.Get(t.Context(), "dev", "missing")
	if !errors.Is(err, paramstore.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}
