// Package botsecrets resolves the bot token and the webhook secret from Secrets Manager.
package botsecrets

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/cockroachdb/errors"
)

// GetSecretValueAPI is the subset of the Secrets Manager client used here.
type GetSecretValueAPI interface {
	GetSecretValue(
		ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// Get returns the secret string stored under id, an ARN or a name.
func Get(ctx context.Context, api GetSecretValueAPI, id string) (string, error) {
	out, err := api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", errors.Wrapf(err, "get secret %s", id)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return "", errors.Newf("secret %s has no string value", id)
	}
	return *out.SecretString, nil
}

// GetField returns one field of a JSON secret. With an empty field the whole secret
// string is returned.
func GetField(ctx context.Context, api GetSecretValueAPI, id, field string) (string, error) {
	value, err := Get(ctx, api, id)
	if err != nil || field == "" {
		return value, err
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return "", errors.Newf("secret %s is not a JSON object", id)
	}
	v, ok := fields[field].(string)
	if !ok || v == "" {
		return "", errors.Newf("secret %s has no string field %q", id, field)
	}
	return v, nil
}
