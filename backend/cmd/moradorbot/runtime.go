package main

import (
	"context"
	"io"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/basewarphq/morador/backend/internal/botsecrets"
	"github.com/basewarphq/morador/paramstore"
	"github.com/basewarphq/morador/telegram"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// awsAPIs are the AWS clients the commands need.
type awsAPIs struct {
	params  paramstore.GetParameterAPI
	secrets botsecrets.GetSecretValueAPI
}

// Runtime is bound to every command's Run method.
type Runtime struct {
	globals *Globals
	logger  *zap.Logger
	out     io.Writer

	loadAWS func(ctx context.Context) (awsAPIs, error)
	awsOnce sync.Once
	aws     awsAPIs
	awsErr  error
}

func newRuntime(g *Globals, logger *zap.Logger, out io.Writer) *Runtime {
	return &Runtime{
		globals: g,
		logger:  logger,
		out:     out,
		loadAWS: defaultAWS(g.Region),
	}
}

func defaultAWS(region string) func(ctx context.Context) (awsAPIs, error) {
	return func(ctx context.Context) (awsAPIs, error) {
		var opts []func(*awsconfig.LoadOptions) error
		if region != "" {
			opts = append(opts, awsconfig.WithRegion(region))
		}

		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return awsAPIs{}, errors.Wrap(err, "load AWS config")
		}
		return awsAPIs{
			params:  ssm.NewFromConfig(cfg),
			secrets: secretsmanager.NewFromConfig(cfg),
		}, nil
	}
}

// AWS returns the AWS clients, loading the config on first use.
func (rt *Runtime) AWS(ctx context.Context) (awsAPIs, error) {
	rt.awsOnce.Do(func() {
		rt.aws, rt.awsErr = rt.loadAWS(ctx)
	})
	return rt.aws, rt.awsErr
}

// Param reads a value the stacks of the selected deployment wrote to SSM.
func (rt *Runtime) Param(ctx context.Context, name string) (string, error) {
	if rt.globals.Env == "" {
		return "", errors.Newf("--env is required to read %s", name)
	}
	apis, err := rt.AWS(ctx)
	if err != nil {
		return "", err
	}
	return paramstore.NewReader(apis.params).Get(ctx, rt.globals.Env, name)
}

// Secret reads a Secrets Manager secret.
func (rt *Runtime) Secret(ctx context.Context, id string) (string, error) {
	apis, err := rt.AWS(ctx)
	if err != nil {
		return "", err
	}
	return botsecrets.Get(ctx, apis.secrets, id)
}

// Token resolves the bot token from the flag, then the token secret, then the
// token secret of the selected deployment.
func (rt *Runtime) Token(ctx context.Context) (string, error) {
	g := rt.globals
	switch {
	case g.Token != "":
		return g.Token, nil
	case g.TokenSecretID != "":
		return rt.Secret(ctx, g.TokenSecretID)
	case g.Env != "":
		arn, err := rt.Param(ctx, "bot-token-secret-arn")
		if err != nil {
			return "", err
		}
		return rt.Secret(ctx, arn)
	default:
		return "", errors.New("no bot token: set TELEGRAM_BOT_TOKEN, TELEGRAM_TOKEN_SECRET_ID or --env")
	}
}

// Client returns a Bot API client for the resolved token.
func (rt *Runtime) Client(ctx context.Context) (*telegram.Client, error) {
	token, err := rt.Token(ctx)
	if err != nil {
		return nil, err
	}
	return telegram.NewClient(token, telegram.WithBaseURL(rt.globals.APIURL)), nil
}
