// Package paramstore reads the plain string values that the CDK stacks hand
// off to each other (and to runtime processes) through SSM Parameter Store.
package paramstore

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned when a parameter does not exist.
var ErrNotFound = errors.New("parameter not found")

// Path returns the parameter path for a name within an environment namespace,
// e.g. Path("Dev", "zone-id") returns "/dev/zone-id".
func Path(env, name string) string {
	return "/" + strings.ToLower(env) + "/" + strings.TrimPrefix(name, "/")
}

// GetParameterAPI is the subset of the SSM client used by Reader.
type GetParameterAPI interface {
	GetParameter(
		ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options),
	) (*ssm.GetParameterOutput, error)
}

// Reader reads hand-off parameters.
type Reader struct {
	api GetParameterAPI
}

// NewReader creates a Reader on top of an SSM client.
func NewReader(api GetParameterAPI) *Reader {
	return &Reader{api: api}
}

// Get returns the value stored under Path(env, name).
func (r *Reader) Get(ctx context.Context, env, name string) (string, error) {
	path := Path(env, name)

	out, err := r.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(path),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", errors.Wrapf(ErrNotFound, "%s", path)
		}

		return "", errors.Wrapf(err, "get parameter %s", path)
	}

	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", errors.Wrapf(ErrNotFound, "%s has no value", path)
	}

	return *out.Parameter.Value, nil
}
