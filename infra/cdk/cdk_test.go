//nolint:paralleltest // jsii runtime doesn't support parallel tests
package cdk_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdktest"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
	"github.com/basewarphq/morador/infra/cdk"
)

func init() {
	// Change to module root so CDK can find the Lambda entry paths.
	dir, _ := os.Getwd()
	for dir != "/" {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			_ = os.Chdir(dir)
			break
		}
		dir = filepath.Dir(dir)
	}
}

type synthesized struct {
	app         awscdk.App
	shared      *cdk.Shared
	deployments map[string]*cdk.Deployment
}

func setup(overrides map[string]any) *synthesized {
	ctx := bwcdktest.ContextWith(overrides)
	res := &synthesized{
		app:         awscdk.NewApp(&awscdk.AppProps{Context: &ctx}),
		deployments: map[string]*cdk.Deployment{},
	}

	bwcdkutil.SetupApp(res.app, bwcdktest.AppConfig(),
		func(stacks *bwcdkutil.Stacks) *cdk.Shared {
			res.shared = cdk.NewShared(stacks)
			return res.shared
		},
		func(stacks *bwcdkutil.Stacks, shared *cdk.Shared) {
			res.deployments[stacks.DeploymentIdent()] = cdk.NewDeployment(stacks, shared)
		},
	)

	return res
}

func stackNames(app awscdk.App) []string {
	var names []string
	for _, child := range *app.Node().Children() {
		if *awscdk.Stack_IsStack(child) {
			names = append(names, *child.Node().Id())
		}
	}
	return names
}

func TestSynth_AllStacks(t *testing.T) {
	defer jsii.Close()

	res := setup(nil)

	want := []string{
		"moradorSae1SharedDns",
		"moradorSae1SharedCertificates",
		"moradorUse1SharedCertificates",
	}
	for _, ident := range []string{"Dev", "Prod"} {
		want = append(want,
			"moradorSae1"+ident+"Storage",
			"moradorSae1"+ident+"Network",
			"moradorSae1"+ident+"Security",
			"moradorSae1"+ident+"Kms",
			"moradorSae1"+ident+"CloudTrail",
			"moradorSae1"+ident+"Cognito",
			"moradorSae1"+ident+"Redis",
			"moradorSae1"+ident+"Notifications",
			"moradorUse1"+ident+"Waf",
			"moradorUse1"+ident+"Cdn",
			"moradorSae1"+ident+"FrontendPipeline",
			"moradorSae1"+ident+"BackendPipeline",
			"moradorSae1"+ident+"Bot",
		)
	}

	got := stackNames(res.app)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("stacks = %v, want %v", got, want)
	}

	// every stack must synthesize
	res.app.Synth(nil)
}

func TestSynth_BeforeDNSDelegation(t *testing.T) {
	defer jsii.Close()

	res := setup(map[string]any{"morador-dns-delegated": false})

	if len(res.shared.Certificates) != 0 {
		t.Errorf("got %d certificates before delegation, want 0", len(res.shared.Certificates))
	}
	for _, name := range stackNames(res.app) {
		if name == "moradorSae1SharedCertificates" || name == "moradorUse1SharedCertificates" {
			t.Errorf("unexpected stack %s before delegation", name)
		}
	}

	dev := res.deployments["Dev"]
	cdn := assertions.Template_FromStack(dev.Cdn.Stack, nil)
	cdn.ResourceCountIs(jsii.String("AWS::Route53::RecordSet"), jsii.Number(0))

	bot := assertions.Template_FromStack(dev.Bot.Stack, nil)
	bot.HasResourceProperties(jsii.String("AWS::ApiGateway::RestApi"), map[string]any{
		"DisableExecuteApiEndpoint": false,
	})
	bot.ResourceCountIs(jsii.String("AWS::ApiGateway::DomainName"), jsii.Number(0))
}

func TestSynth_PrimaryInEdgeRegion(t *testing.T) {
	defer jsii.Close()

	res := setup(map[string]any{"morador-primary-region": "us-east-1"})

	if len(res.shared.Certificates) != 1 {
		t.Errorf("got %d certificates, want 1", len(res.shared.Certificates))
	}

	cdn := assertions.Template_FromStack(res.deployments["Dev"].Cdn.Stack, nil)
	cdn.ResourceCountIs(jsii.String("Custom::AWS"), jsii.Number(0))
}

func TestShared(t *testing.T) {
	defer jsii.Close()

	res := setup(nil)

	dns := assertions.Template_FromStack(res.shared.DNS.HostedZone().Stack(), nil)
	dns.HasResourceProperties(jsii.String("AWS::Route53::HostedZone"), map[string]any{
		"Name": "example.com.",
	})
	dns.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
		"Name": "/morador/zone-id",
	})

	for region, certs := range res.shared.Certificates {
		tmpl := assertions.Template_FromStack(awscdk.Stack_Of(certs.WildcardCertificate()), nil)
		tmpl.HasResourceProperties(jsii.String("AWS::CertificateManager::Certificate"), map[string]any{
			"DomainName":              "example.com",
			"SubjectAlternativeNames": []any{"*.example.com"},
		})

		wantCustom := 1
		if region == "sa-east-1" {
			wantCustom = 0
		}
		tmpl.ResourceCountIs(jsii.String("Custom::AWS"), jsii.Number(wantCustom))
	}
}

func TestStorage(t *testing.T) {
	defer jsii.Close()

	res := setup(nil)
	tmpl := assertions.Template_FromStack(res.deployments["Dev"].Storage.Stack, nil)

	tmpl.ResourceCountIs(jsii.String("AWS::S3::Bucket"), jsii.Number(4))
	tmpl.AllResourcesProperties(jsii.String("AWS::S3::Bucket"), map[string]any{
		"AccessControl": "BucketOwnerFullControl",
		"PublicAccessBlockConfiguration": map[string]any{
			"BlockPublicAcls":       true,
			"BlockPublicPolicy":     true,
			"IgnorePublicAcls":      true,
			"RestrictPublicBuckets": true,
		},
		"BucketEncryption": map[string]any{
			"ServerSideEncryptionConfiguration": []any{
				map[string]any{
					"ServerSideEncryptionByDefault": map[string]any{"SSEAlgorithm": "AES256"},
				},
			},
		},
	})
	tmpl.HasResource(jsii.String("AWS::S3::Bucket"), map[string]any{
		"DeletionPolicy": "Delete",
	})
	tmpl.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
		"Name": "/dev/lambda-s3-bucket",
	})
	tmpl.HasOutput(jsii.String("*"), map[string]any{
		"Export": map[string]any{"Name": "dev-frontend-bucket"},
	})
	tmpl.HasOutput(jsii.String("*"), map[string]any{
		"Export": map[string]any{"Name": "dev-build-artifacts-bucket"},
	})
	tmpl.HasResourceProperties(jsii.String("AWS::S3::BucketPolicy"), map[string]any{
		"PolicyDocument": map[string]any{
			"Statement": assertions.Match_ArrayWith(&[]any{
				assertions.Match_ObjectLike(&map[string]any{
					"Action":    "s3:GetObject",
					"Principal": map[string]any{"Service": "cloudfront.amazonaws.com"},
				}),
			}),
		},
	})
}

func TestSecurity(t *testing.T) {
	defer jsii.Close()

	res := setup(nil)
	tmpl := assertions.Template_FromStack(res.deployments["Dev"].Security.Stack, nil)

	tmpl.ResourceCountIs(jsii.String("AWS::EC2::SecurityGroup"), jsii.Number(3))
	tmpl.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroup"), map[string]any{
		"GroupName": "bastion-sg",
		"SecurityGroupIngress": []any{
			assertions.Match_ObjectLike(&map[string]any{
				"CidrIp":   "0.0.0.0/0",
				"FromPort": 22,
				"ToPort":   22,
			}),
		},
	})
	tmpl.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroupIngress"), map[string]any{
		"FromPort": 6379,
		"ToPort":   6379,
	})
	tmpl.HasResourceProperties(jsii.String("AWS::IAM::Role"), map[string]any{
		"RoleName": "riowonder-dev-lambda-role",
	})
	for _, name := range []string{"lambda-sg", "redis-sg", "lambda-role-arn", "lambda-role-name"} {
		tmpl.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
			"Name": "/dev/" + name,
		})
	}
}

func TestKmsAndCloudTrail(t *testing.T) {
	defer jsii.Close()

	res := setup(nil)
	dev := res.deployments["Dev"]

	kms := assertions.Template_FromStack(dev.Kms.Stack, nil)
	kms.HasResourceProperties(jsii.String("AWS::KMS::Key"), map[string]any{
		"Description":       "riowonder-key-rds",
		"EnableKeyRotation": true,
	})
	kms.HasResourceProperties(jsii.String("AWS::KMS::Alias"), map[string]any{
		"AliasName": "alias/riowonder-dev-key-rds",
	})

	trail := assertions.Template_FromStack(dev.CloudTrail.Stack, nil)
	trail.HasResourceProperties(jsii.String("AWS::CloudTrail::Trail"), map[string]any{
		"TrailName": "riowonder-dev-trail",
	})
	trail.ResourceCountIs(jsii.String("AWS::S3::Bucket"), jsii.Number(0))
}

func TestCognito(t *testing.T) {
	defer jsii.Close()

	res := setup(nil)
	tmpl := assertions.Template_FromStack(res.deployments["Prod"].Cognito.Stack, nil)

	tmpl.HasResourceProperties(jsii.String("AWS::Cognito::UserPool"), map[string]any{
		"AutoVerifiedAttributes": []any{"email"},
		"UsernameAttributes":     []any{"email", "phone_number"},
		"Policies": map[string]any{
			"PasswordPolicy": map[string]any{
				"MinimumLength":    10,
				"RequireLowercase": true,
				"RequireNumbers":   true,
				"RequireSymbols":   false,
				"RequireUppercase": true,
			},
		},
	})
	tmpl.HasResourceProperties(jsii.String("AWS::Cognito::UserPoolClient"), map[string]any{
		"ClientName": "prod-app-client",
	})
	tmpl.HasResourceProperties(jsii.String("AWS::Cognito::IdentityPool"), map[string]any{
		"AllowUnauthenticatedIdentities": false,
	})
	tmpl.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
		"Name": "/prod/cognito-identity-pool-id",
	})
}

func TestRedisAndNotifications(t *testing.T) {
	defer jsii.Close()

	res := setup(map[string]any{"morador-alarm-email": "ops@example.com"})
	dev := res.deployments["Dev"]

	redis := assertions.Template_FromStack(dev.Redis.Stack, nil)
	redis.HasResourceProperties(jsii.String("AWS::ElastiCache::CacheCluster"), map[string]any{
		"CacheNodeType": cdk.RedisNodeType,
		"Engine":        "redis",
		"NumCacheNodes": 1,
		"ClusterName":   "riowonder-dev-redis",
	})
	redis.ResourceCountIs(jsii.String("AWS::ElastiCache::SubnetGroup"), jsii.Number(1))
	redis.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
		"Name": "/dev/redis-endpoint",
	})

	notifications := assertions.Template_FromStack(dev.Notifications.Stack, nil)
	notifications.HasResourceProperties(jsii.String("AWS::SNS::Subscription"), map[string]any{
		"Protocol": "email",
		"Endpoint": "ops@example.com",
	})
	notifications.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
		"Name": "/dev/alarm-topic-arn",
	})
}

func TestWafAndCdn(t *testing.T) {
	defer jsii.Close()

	res := setup(nil)
	dev := res.deployments["Dev"]

	waf := assertions.Template_FromStack(dev.Waf.Stack, nil)
	waf.HasResourceProperties(jsii.String("AWS::WAFv2::WebACL"), map[string]any{
		"Scope": "CLOUDFRONT",
		"Rules": []any{
			assertions.Match_ObjectLike(&map[string]any{
				"Name":           "AWSManagedCommonRule",
				"OverrideAction": map[string]any{"Count": map[string]any{}},
			}),
		},
	})

	cdn := assertions.Template_FromStack(dev.Cdn.Stack, nil)
	cdn.HasResourceProperties(jsii.String("AWS::CloudFront::Distribution"), map[string]any{
		"DistributionConfig": assertions.Match_ObjectLike(&map[string]any{
			"Aliases": []any{"app.example.com"},
			"CustomErrorResponses": []any{
				map[string]any{"ErrorCode": 400, "ResponseCode": 200, "ResponsePagePath": "/"},
				map[string]any{"ErrorCode": 403, "ResponseCode": 200, "ResponsePagePath": "/"},
				map[string]any{"ErrorCode": 404, "ResponseCode": 200, "ResponsePagePath": "/"},
			},
		}),
	})
	cdn.ResourceCountIs(jsii.String("AWS::CloudFront::OriginAccessControl"), jsii.Number(1))
	cdn.HasResourceProperties(jsii.String("AWS::Route53::RecordSet"), map[string]any{
		"Name": "app.example.com.",
		"Type": "A",
	})
	cdn.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
		"Name":  "/dev/app-cdn-url",
		"Value": "https://app.example.com",
	})
	// the hosted zone ID is read from the primary region
	cdn.ResourceCountIs(jsii.String("Custom::AWS"), jsii.Number(1))
}

func TestPipelines(t *testing.T) {
	defer jsii.Close()

	res := setup(nil)
	dev := res.deployments["Dev"]

	frontend := assertions.Template_FromStack(dev.FrontendPipeline.Stack, nil)
	frontend.HasResourceProperties(jsii.String("AWS::CodePipeline::Pipeline"), map[string]any{
		"Name": "riowonder-dev-frontend-pipeline",
		"Stages": []any{
			assertions.Match_ObjectLike(&map[string]any{"Name": "Source"}),
			assertions.Match_ObjectLike(&map[string]any{"Name": "Build"}),
			assertions.Match_ObjectLike(&map[string]any{"Name": "Deploy"}),
		},
	})
	// the distribution ID is read from the edge region
	frontend.ResourceCountIs(jsii.String("Custom::AWS"), jsii.Number(1))
	frontend.ResourceCountIs(jsii.String("AWS::CloudWatch::Alarm"), jsii.Number(2))

	backend := assertions.Template_FromStack(dev.BackendPipeline.Stack, nil)
	backend.HasResourceProperties(jsii.String("AWS::CodeBuild::Project"), map[string]any{
		"Name": "dev-riowonder-build-project",
		"Environment": assertions.Match_ObjectLike(&map[string]any{
			"EnvironmentVariables": assertions.Match_ArrayWith(&[]any{
				map[string]any{"Name": "ENV", "Type": "PLAINTEXT", "Value": "dev"},
				map[string]any{"Name": "PRJ", "Type": "PLAINTEXT", "Value": "riowonder"},
			}),
		}),
	})
	backend.HasResourceProperties(jsii.String("AWS::CodePipeline::Pipeline"), map[string]any{
		"Name": "dev-riowonder-backend-pipeline",
	})
	for _, name := range []string{"account-id", "region"} {
		backend.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
			"Name": "/dev/" + name,
		})
	}
}

func TestBot(t *testing.T) {
	defer jsii.Close()

	res := setup(nil)
	tmpl := assertions.Template_FromStack(res.deployments["Dev"].Bot.Stack, nil)

	tmpl.HasResourceProperties(jsii.String("AWS::DynamoDB::GlobalTable"), map[string]any{
		"TableName": "riowonder-dev-bot-updates-table",
	})
	tmpl.HasResourceProperties(jsii.String("AWS::Lambda::Function"), map[string]any{
		"FunctionName": "riowonder-dev-backend-webhook",
		"Environment": map[string]any{
			"Variables": assertions.Match_ObjectLike(&map[string]any{
				"BW_ENV":                  "dev",
				"BW_UPDATES_TABLE":        assertions.Match_AnyValue(),
				"BW_BOT_TOKEN_SECRET_ARN": assertions.Match_AnyValue(),
				"BW_WEBHOOK_SECRET_ARN":   assertions.Match_AnyValue(),
			}),
		},
	})
	tmpl.HasResourceProperties(jsii.String("AWS::ApiGateway::Method"), map[string]any{
		"HttpMethod": "POST",
	})
	tmpl.ResourceCountIs(jsii.String("AWS::SecretsManager::Secret"), jsii.Number(2))
	tmpl.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
		"Name":  "/dev/bot-webhook-url",
		"Value": "https://dev-bot.example.com/telegram/webhook",
	})
	for _, name := range []string{"bot-webhook-secret-arn", "bot-token-secret-arn", "bot-updates-table"} {
		tmpl.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
			"Name": "/dev/" + name,
		})
	}
	tmpl.HasResourceProperties(jsii.String("AWS::CloudWatch::Alarm"), map[string]any{
		"MetricName": "Errors",
	})
}
