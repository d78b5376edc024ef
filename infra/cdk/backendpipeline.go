package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipelineactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// GitHubTokenField is the JSON field of the GitHub token secret holding the token.
const GitHubTokenField = "github-token"

// BackendPipeline holds the delivery pipeline of this repository.
type BackendPipeline struct {
	Stack    awscdk.Stack
	Project  awscodebuild.PipelineProject
	Pipeline awscodepipeline.Pipeline
}

// NewBackendPipeline creates a pipeline that tests this repository and deploys the
// stacks of the deployment on every push to the backend branch.
func NewBackendPipeline(stack awscdk.Stack) *BackendPipeline {
	p := &BackendPipeline{Stack: stack}
	cfg := bwcdkutil.ConfigFromScope(stack)
	envName := bwcdkutil.EnvName(stack)

	artifactBucket := awss3.Bucket_FromBucketName(stack, jsii.String("ArtifactBucket"),
		BucketName(stack, "build-artifacts"))
	githubToken := awscdk.SecretValue_SecretsManager(jsii.String(envName+"/github-token"),
		&awscdk.SecretsManagerSecretOptions{JsonField: jsii.String(GitHubTokenField)})

	p.Project = awscodebuild.NewPipelineProject(stack, jsii.String("BuildProject"),
		&awscodebuild.PipelineProjectProps{
			ProjectName: jsii.String(envName + "-" + cfg.ProjectName + "-build-project"),
			Description: jsii.String("test and deploy the morador stacks"),
			Environment: &awscodebuild.BuildEnvironment{
				BuildImage: awscodebuild.LinuxBuildImage_STANDARD_7_0(),
				EnvironmentVariables: &map[string]*awscodebuild.BuildEnvironmentVariable{
					"ENV":   {Value: jsii.String(envName)},
					"PRJ":   {Value: jsii.String(cfg.ProjectName)},
					"STAGE": {Value: jsii.String(bwcdkutil.DeploymentIdent(stack))},
				},
			},
			Cache: awscodebuild.Cache_Bucket(artifactBucket, &awscodebuild.BucketCacheOptions{
				Prefix: jsii.String("codebuild-cache"),
			}),
			BuildSpec: awscodebuild.BuildSpec_FromObject(&map[string]any{
				"version": "0.2",
				"phases": map[string]any{
					"install": map[string]any{"commands": []string{
						"npm install --silent --no-progress -g aws-cdk",
					}},
					"pre_build": map[string]any{"commands": []string{"go test ./..."}},
					"build": map[string]any{"commands": []string{
						"cdk deploy --require-approval never -c " + cfg.Prefix + "deployer-groups=" +
							cfg.DeployersGroup + ` "*$STAGE*"`,
					}},
				},
				"cache": map[string]any{"paths": []string{"/root/go/pkg/mod/**/*"}},
			}),
		})
	p.Project.Role().AddManagedPolicy(
		awsiam.ManagedPolicy_FromAwsManagedPolicyName(jsii.String("AdministratorAccess")))

	sourceOutput := awscodepipeline.NewArtifact(jsii.String("source"), nil)

	p.Pipeline = awscodepipeline.NewPipeline(stack, jsii.String("Pipeline"), &awscodepipeline.PipelineProps{
		PipelineName:             jsii.String(envName + "-" + cfg.ProjectName + "-backend-pipeline"),
		ArtifactBucket:           artifactBucket,
		RestartExecutionOnUpdate: jsii.Bool(false),
		CrossAccountKeys:         jsii.Bool(false),
		Stages: &[]*awscodepipeline.StageProps{
			{
				StageName: jsii.String("Source"),
				Actions: &[]awscodepipeline.IAction{
					awscodepipelineactions.NewGitHubSourceAction(&awscodepipelineactions.GitHubSourceActionProps{
						ActionName: jsii.String("GitHubSource"),
						Owner:      jsii.String(cfg.BackendRepositoryOwner),
						Repo:       jsii.String(cfg.BackendRepository),
						Branch:     jsii.String(cfg.BackendBranch),
						OauthToken: githubToken,
						Output:     sourceOutput,
						Trigger:    awscodepipelineactions.GitHubTrigger_WEBHOOK,
					}),
				},
			},
			{
				StageName: jsii.String("Deploy"),
				Actions: &[]awscodepipeline.IAction{
					awscodepipelineactions.NewCodeBuildAction(&awscodepipelineactions.CodeBuildActionProps{
						ActionName: jsii.String("DeployTo" + bwcdkutil.DeploymentIdent(stack)),
						Project:    p.Project,
						Input:      sourceOutput,
					}),
				},
			},
		},
	})

	bwcdkparams.Store(stack, "AccountIDParam", "account-id", awscdk.Aws_ACCOUNT_ID())
	bwcdkparams.Store(stack, "RegionParam", "region", awscdk.Aws_REGION())

	topic := lookupAlarmTopic(stack)
	alarmOnFailure(stack, "BackendPipelineFailed", "Backend pipeline execution failed",
		pipelineFailures(p.Pipeline), topic)
	alarmOnFailure(stack, "BackendBuildFailed", "Backend build failed",
		p.Project.MetricFailedBuilds(nil), topic)

	return p
}

func pipelineFailures(pipeline awscodepipeline.Pipeline) awscloudwatch.IMetric {
	return awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
		Namespace:  jsii.String("AWS/CodePipeline"),
		MetricName: jsii.String("FailedPipelines"),
		Statistic:  jsii.String("Sum"),
		Period:     awscdk.Duration_Minutes(jsii.Number(5)),
		DimensionsMap: &map[string]*string{
			"PipelineName": pipeline.PipelineName(),
		},
		Unit: awscloudwatch.Unit_COUNT,
	})
}
