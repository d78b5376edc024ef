// Package bwcdklwalambda deploys a Go command as a Lambda function that serves HTTP
// behind the Lambda Web Adapter layer. The command is expected to be a bwlwa app.
package bwcdklwalambda

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdklambdagoalpha/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkloggroup"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
	"github.com/cockroachdb/errors"
	"github.com/iancoleman/strcase"
)

// LWALayerVersion is the current version of the Lambda Web Adapter layer.
const LWALayerVersion = 25

// Lambda is a deployed LWA function.
type Lambda interface {
	Function() awscdklambdagoalpha.GoFunction
	LogGroup() awslogs.ILogGroup
	// Name is the construct name, e.g. "BackendWebhook".
	Name() string
}

// Props configures the Lambda construct.
type Props struct {
	// Entry is the command directory, "<component>/cmd/<command>". Required.
	Entry *string
	// Environment is merged with the variables BaseEnvironment needs.
	Environment *map[string]*string
	// MemorySize in MiB, defaults to 128.
	MemorySize *float64
	// Timeout defaults to 30 seconds.
	Timeout awscdk.Duration
}

// ParseEntry splits "<component>/cmd/<command>". The last "cmd" segment wins.
func ParseEntry(entry string) (component, command string, err error) {
	parts := strings.Split(filepath.ToSlash(entry), "/")

	for i := len(parts) - 2; i >= 1; i-- {
		if parts[i] == "cmd" {
			component = parts[i-1]
			command = parts[i+1]
			if component == "" || command == "" {
				break
			}
			return component, command, nil
		}
	}

	return "", "", errors.Newf("entry must match pattern <component>/cmd/<command>, got %q", entry)
}

type lambda struct {
	function awscdklambdagoalpha.GoFunction
	logGroup awslogs.ILogGroup
	name     string
}

// New builds the function for arm64 on AL2023 with X-Ray tracing and its own log
// group. It panics when Entry does not match "<component>/cmd/<command>".
func New(scope constructs.Construct, props Props) Lambda {
	component, command, err := ParseEntry(*props.Entry)
	if err != nil {
		panic(err)
	}
	scopeName := strcase.ToCamel(component) + strcase.ToCamel(command)
	scope = constructs.NewConstruct(scope, jsii.String(scopeName))
	con := &lambda{name: scopeName}

	region := *awscdk.Stack_Of(scope).Region()

	functionName := bwcdkutil.ResourceName(scope, scopeName, bwcdkutil.CasingKebab)

	env := make(map[string]*string)
	if props.Environment != nil {
		maps.Copy(env, *props.Environment)
	}
	env["AWS_LWA_PORT"] = jsii.String("8080")
	env["AWS_LWA_READINESS_CHECK_PATH"] = jsii.String("/health")
	env["BW_SERVICE_NAME"] = jsii.String(functionName)
	env["BW_OTEL_EXPORTER"] = jsii.String("xrayudp")
	env["BW_PRIMARY_REGION"] = jsii.String(bwcdkutil.PrimaryRegion(scope))
	env["BW_ENV"] = jsii.String(bwcdkutil.EnvName(scope))

	memorySize := props.MemorySize
	if memorySize == nil {
		memorySize = jsii.Number(128)
	}
	timeout := props.Timeout
	if timeout == nil {
		timeout = awscdk.Duration_Seconds(jsii.Number(30))
	}

	con.logGroup = bwcdkloggroup.New(scope, scopeName+"Logs", bwcdkloggroup.Props{
		Purpose: jsii.String("Lambda function " + scopeName),
	}).LogGroup()

	lwaLayerArn := fmt.Sprintf(
		"arn:aws:lambda:%s:753240598075:layer:LambdaAdapterLayerArm64:%d",
		region, LWALayerVersion,
	)

	con.function = awscdklambdagoalpha.NewGoFunction(scope, jsii.String("Function"),
		&awscdklambdagoalpha.GoFunctionProps{
			FunctionName: jsii.String(functionName),
			Entry:        props.Entry,
			Architecture: awslambda.Architecture_ARM_64(),
			Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
			MemorySize:   memorySize,
			Timeout:      timeout,
			Environment:  &env,
			Bundling:     bwcdkutil.ReproducibleGoBundling(),
			Tracing:      awslambda.Tracing_ACTIVE,
			Layers: &[]awslambda.ILayerVersion{
				awslambda.LayerVersion_FromLayerVersionArn(scope,
					jsii.String("LWALayer"), jsii.String(lwaLayerArn)),
			},
			LogGroup:      con.logGroup,
			LoggingFormat: awslambda.LoggingFormat_JSON,
		})

	return con
}

func (l *lambda) Function() awscdklambdagoalpha.GoFunction {
	return l.function
}

func (l *lambda) LogGroup() awslogs.ILogGroup {
	return l.logGroup
}

func (l *lambda) Name() string {
	return l.name
}
