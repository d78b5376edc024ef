package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodecommit"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipelineactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// FrontendPipeline holds the delivery pipeline of the frontend app.
type FrontendPipeline struct {
	Stack    awscdk.Stack
	Project  awscodebuild.PipelineProject
	Pipeline awscodepipeline.Pipeline
}

// NewFrontendPipeline creates a pipeline that builds the frontend repository with
// yarn, invalidates the distribution and extracts the build into the frontend bucket.
func NewFrontendPipeline(stack awscdk.Stack) *FrontendPipeline {
	p := &FrontendPipeline{Stack: stack}
	cfg := bwcdkutil.ConfigFromScope(stack)

	artifactBucket := awss3.Bucket_FromBucketName(stack, jsii.String("ArtifactBucket"),
		BucketName(stack, "build-artifacts"))
	frontendBucket := awss3.Bucket_FromBucketName(stack, jsii.String("FrontendBucket"),
		BucketName(stack, "frontend"))
	repository := awscodecommit.Repository_FromRepositoryName(stack, jsii.String("Repository"),
		jsii.String(cfg.FrontendRepository))
	distributionID := bwcdkparams.LookupIn(stack, "LookupDistributionID",
		bwcdkparams.ParameterName(stack, distributionIDParam), bwcdkutil.EdgeRegion)

	p.Project = awscodebuild.NewPipelineProject(stack, jsii.String("BuildFrontend"),
		&awscodebuild.PipelineProjectProps{
			ProjectName: jsii.String(bwcdkutil.ResourceName(stack, "build-frontend", bwcdkutil.CasingKebab)),
			Description: jsii.String("frontend project for SPA"),
			Environment: &awscodebuild.BuildEnvironment{
				BuildImage: awscodebuild.LinuxBuildImage_STANDARD_7_0(),
				EnvironmentVariables: &map[string]*awscodebuild.BuildEnvironmentVariable{
					"distributionid": {Value: distributionID},
				},
			},
			Cache: awscodebuild.Cache_Bucket(artifactBucket, &awscodebuild.BucketCacheOptions{
				Prefix: jsii.String("codebuild-cache"),
			}),
			BuildSpec: awscodebuild.BuildSpec_FromObject(&map[string]any{
				"version": "0.2",
				"phases": map[string]any{
					"pre_build": map[string]any{"commands": []string{"yarn install"}},
					"build":     map[string]any{"commands": []string{"yarn run build"}},
					"post_build": map[string]any{"commands": []string{
						`aws cloudfront create-invalidation --distribution-id $distributionid --paths "/*"`,
					}},
				},
				"artifacts": map[string]any{"files": []string{"build/**/*"}},
				"cache":     map[string]any{"paths": []string{"./node_modules/**/*"}},
			}),
		})
	p.Project.AddToRolePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:   jsii.Strings("cloudfront:CreateInvalidation"),
		Resources: jsii.Strings("*"),
	}))

	sourceOutput := awscodepipeline.NewArtifact(jsii.String("source"), nil)
	buildOutput := awscodepipeline.NewArtifact(jsii.String("build"), nil)

	p.Pipeline = awscodepipeline.NewPipeline(stack, jsii.String("Pipeline"), &awscodepipeline.PipelineProps{
		PipelineName:             jsii.String(bwcdkutil.ResourceName(stack, "frontend-pipeline", bwcdkutil.CasingKebab)),
		ArtifactBucket:           artifactBucket,
		RestartExecutionOnUpdate: jsii.Bool(false),
		CrossAccountKeys:         jsii.Bool(false),
		Stages: &[]*awscodepipeline.StageProps{
			{
				StageName: jsii.String("Source"),
				Actions: &[]awscodepipeline.IAction{
					awscodepipelineactions.NewCodeCommitSourceAction(&awscodepipelineactions.CodeCommitSourceActionProps{
						ActionName: jsii.String("CodeCommitSource"),
						Repository: repository,
						Branch:     jsii.String("master"),
						Output:     sourceOutput,
					}),
				},
			},
			{
				StageName: jsii.String("Build"),
				Actions: &[]awscodepipeline.IAction{
					awscodepipelineactions.NewCodeBuildAction(&awscodepipelineactions.CodeBuildActionProps{
						ActionName: jsii.String("Build"),
						Project:    p.Project,
						Input:      sourceOutput,
						Outputs:    &[]awscodepipeline.Artifact{buildOutput},
					}),
				},
			},
			{
				StageName: jsii.String("Deploy"),
				Actions: &[]awscodepipeline.IAction{
					awscodepipelineactions.NewS3DeployAction(&awscodepipelineactions.S3DeployActionProps{
						ActionName: jsii.String("Deploy"),
						Bucket:     frontendBucket,
						Input:      buildOutput,
						Extract:    jsii.Bool(true),
					}),
				},
			},
		},
	})

	topic := lookupAlarmTopic(stack)
	alarmOnFailure(stack, "FrontendPipelineFailed", "Frontend pipeline execution failed",
		pipelineFailures(p.Pipeline), topic)
	alarmOnFailure(stack, "FrontendBuildFailed", "Frontend build failed",
		p.Project.MetricFailedBuilds(nil), topic)

	return p
}
