// Package updatelog records which Telegram updates were processed, so the webhook
// handles every update once even when Telegram delivers it again.
package updatelog

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
)

// DefaultTTL is how long a claim is kept. Telegram stops redelivering an update long
// before that.
const DefaultTTL = 7 * 24 * time.Hour

// PutItemAPI is the subset of the DynamoDB client used by Log.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Log claims updates in a table with a "pk"/"sk" key and an "expires_at" TTL attribute.
type Log struct {
	api   PutItemAPI
	table string
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(l *Log) { l.ttl = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New creates a Log on the given table.
func New(api PutItemAPI, table string, opts ...Option) *Log {
	l := &Log{api: api, table: table, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Key returns the partition key of an update.
func Key(updateID int64) string {
	return "update#" + strconv.FormatInt(updateID, 10)
}

// Claim records the update and reports whether this call was the first to do so.
// A false result without error means the update was already claimed.
func (l *Log) Claim(ctx context.Context, updateID int64) (bool, error) {
	now := l.now()

	_, err := l.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.table),
		Item: map[string]types.AttributeValue{
			"pk":         &types.AttributeValueMemberS{Value: Key(updateID)},
			"sk":         &types.AttributeValueMemberS{Value: "claim"},
			"claimed_at": &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
			"expires_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(l.ttl).Unix(), 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(pk)"),
	})
	if err != nil {
		var conflict *types.ConditionalCheckFailedException
		if errors.As(err, &conflict) {
			return false, nil
		}
		return false, errors.Wrapf(err, "claim update %d", updateID)
	}

	return true, nil
}
