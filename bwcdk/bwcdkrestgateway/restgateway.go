// Package bwcdkrestgateway provides a reusable REST gateway construct that wraps
// a Go Lambda function with AWS Lambda Web Adapter.
//
// The construct exposes only the specified routes, keeping every other path the
// Lambda serves (like /health) inaccessible from the internet. The gateway URL and
// REST API ID are stored as the api-gw-url and api-gw-id parameters.
package bwcdkrestgateway

import (
	"fmt"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkloggroup"
	"github.com/basewarphq/morador/bwcdk/bwcdklwalambda"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
	"github.com/iancoleman/strcase"
)

// RestGateway provides access to a REST gateway backed by a Go Lambda function.
type RestGateway interface {
	// Lambda returns the underlying LWA Lambda construct.
	Lambda() bwcdklwalambda.Lambda
	// RestApi returns the API Gateway REST API.
	RestApi() awsapigateway.RestApi
	// AccessLogGroup returns the CloudWatch Log Group for API Gateway access logs.
	AccessLogGroup() awslogs.ILogGroup
	// DomainName returns the custom domain name (e.g., "dev-bot.example.com"), or "" when
	// the gateway has no custom domain.
	DomainName() string
	// URL returns the base URL of the gateway, ending with a slash.
	URL() *string
}

// Route is a public route of the gateway.
type Route struct {
	// Method is the HTTP method, defaults to ANY.
	Method string
	// Path of the route, use {proxy+} for greedy path matching (e.g., "/api/{proxy+}").
	Path string
}

// Props configures the RestGateway construct.
type Props struct {
	// Entry is the path to the Go command directory.
	// Passed to the underlying LWA Lambda construct.
	// Required.
	Entry *string
	// Routes are the routes to expose via API Gateway.
	// Required.
	Routes []Route
	// Environment variables to pass to the Lambda function.
	Environment *map[string]*string
	// MemorySize of the Lambda function.
	MemorySize *float64
	// Subdomain is the subdomain prefix (e.g., "bot").
	// Combined with the environment to form the full subdomain.
	// Required.
	Subdomain *string

	// HostedZone is the Route53 hosted zone for the custom domain record.
	// Optional, without it (or without Certificate) the execute-api endpoint is used.
	HostedZone awsroute53.IHostedZone
	// Certificate is the ACM certificate for the custom domain.
	Certificate awscertificatemanager.ICertificate
}

type restGateway struct {
	lambda         bwcdklwalambda.Lambda
	restApi        awsapigateway.RestApi
	accessLogGroup awslogs.ILogGroup
	domainName     string
	url            *string
}

// New creates a RestGateway construct with a Lambda-backed REST API.
//
// When a hosted zone and certificate are given, a custom domain is configured with
// format "{env}-{subdomain}.{zone}" (e.g., "dev-bot.example.com") and the
// execute-api endpoint is disabled.
func New(scope constructs.Construct, props Props) RestGateway {
	scope = constructs.NewConstruct(scope, jsii.String(strcase.ToCamel(*props.Subdomain)+"RGw"))
	con := &restGateway{}

	con.lambda = bwcdklwalambda.New(scope, bwcdklwalambda.Props{
		Entry:       props.Entry,
		Environment: props.Environment,
		MemorySize:  props.MemorySize,
	})

	envName := bwcdkutil.EnvName(scope)
	apiName := con.lambda.Name() + strcase.ToCamel(envName) + "Gateway"

	con.accessLogGroup = bwcdkloggroup.New(scope, strcase.ToCamel(*props.Subdomain)+"Access",
		bwcdkloggroup.Props{
			Purpose: jsii.String("API Gateway access logs of " + apiName),
		}).LogGroup()

	withDomain := props.HostedZone != nil && props.Certificate != nil

	var domainOpts *awsapigateway.DomainNameOptions
	if withDomain {
		con.domainName = fmt.Sprintf("%s-%s.%s", envName, *props.Subdomain, *props.HostedZone.ZoneName())
		domainOpts = &awsapigateway.DomainNameOptions{
			DomainName:   jsii.String(con.domainName),
			Certificate:  props.Certificate,
			EndpointType: awsapigateway.EndpointType_REGIONAL,
		}
	}

	con.restApi = awsapigateway.NewRestApi(scope, jsii.String("Api"), &awsapigateway.RestApiProps{
		RestApiName: jsii.String(apiName),
		EndpointConfiguration: &awsapigateway.EndpointConfiguration{
			Types: &[]awsapigateway.EndpointType{awsapigateway.EndpointType_REGIONAL},
		},
		DomainName:                domainOpts,
		DisableExecuteApiEndpoint: jsii.Bool(withDomain),
		DeployOptions: &awsapigateway.StageOptions{
			StageName:            jsii.String("prod"),
			AccessLogDestination: awsapigateway.NewLogGroupLogDestination(con.accessLogGroup),
			AccessLogFormat: awsapigateway.AccessLogFormat_JsonWithStandardFields(
				&awsapigateway.JsonWithStandardFieldProps{
					Caller:         jsii.Bool(true),
					HttpMethod:     jsii.Bool(true),
					Ip:             jsii.Bool(true),
					Protocol:       jsii.Bool(true),
					RequestTime:    jsii.Bool(true),
					ResourcePath:   jsii.Bool(true),
					ResponseLength: jsii.Bool(true),
					Status:         jsii.Bool(true),
					User:           jsii.Bool(true),
				}),
		},
	})

	integration := awsapigateway.NewLambdaIntegration(con.lambda.Function(), &awsapigateway.LambdaIntegrationOptions{
		Proxy: jsii.Bool(true),
	})

	for _, route := range props.Routes {
		addRoute(con.restApi.Root(), route, integration)
	}

	if withDomain {
		awsroute53.NewARecord(scope, jsii.String("DnsRecord"), &awsroute53.ARecordProps{
			Zone:       props.HostedZone,
			RecordName: jsii.String(con.domainName),
			Target:     awsroute53.RecordTarget_FromAlias(awsroute53targets.NewApiGateway(con.restApi)),
		})
		con.url = jsii.String("https://" + con.domainName + "/")
	} else {
		con.url = con.restApi.Url()
	}

	awscdk.NewCfnOutput(scope, jsii.String("GatewayURL"), &awscdk.CfnOutputProps{
		Key:         jsii.String(con.lambda.Name() + strcase.ToCamel(*props.Subdomain) + "GatewayURL"),
		Description: jsii.String("API Gateway endpoint URL"),
		Value:       con.url,
	})

	bwcdkparams.Store(scope, "ApiGwURLParam", "api-gw-url", con.url)
	bwcdkparams.Store(scope, "ApiGwIDParam", "api-gw-id", con.restApi.RestApiId())

	return con
}

// addRoute adds a route to the REST API.
// Handles nested paths like "/telegram/webhook" by creating intermediate resources.
func addRoute(root awsapigateway.IResource, route Route, integration awsapigateway.LambdaIntegration) {
	path := strings.Trim(route.Path, "/")

	resource := root
	if path != "" {
		for part := range strings.SplitSeq(path, "/") {
			existing := resource.GetResource(jsii.String(part))
			if existing != nil {
				resource = existing
				continue
			}
			resource = resource.AddResource(jsii.String(part), nil)
		}
	}

	method := route.Method
	if method == "" {
		method = "ANY"
	}
	resource.AddMethod(jsii.String(strings.ToUpper(method)), integration, nil)
}

func (r *restGateway) Lambda() bwcdklwalambda.Lambda {
	return r.lambda
}

func (r *restGateway) RestApi() awsapigateway.RestApi {
	return r.restApi
}

func (r *restGateway) AccessLogGroup() awslogs.ILogGroup {
	return r.accessLogGroup
}

func (r *restGateway) DomainName() string {
	return r.domainName
}

func (r *restGateway) URL() *string {
	return r.url
}
