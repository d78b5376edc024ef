// Package bwcdkdynamo provides a reusable DynamoDB table construct.
//
// The construct creates a single-table design with partition key (pk), sort key (sk)
// and a TTL attribute (expires_at), and stores the table name in SSM Parameter Store
// so that runtime code and other stacks can find it without cross-stack references.
package bwcdkdynamo

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// TTLAttribute is the name of the attribute holding the expiry epoch of an item.
const TTLAttribute = "expires_at"

// Dynamo provides access to a DynamoDB table.
type Dynamo interface {
	// Table returns the DynamoDB table.
	Table() awsdynamodb.ITableV2
	// ParamName returns the name of the parameter that holds the table name.
	ParamName() string
	// GrantReadData grants read-only permissions to the table and its indexes.
	GrantReadData(grantee awsiam.IGrantable)
	// GrantReadWriteData grants read/write permissions to the table and its indexes.
	GrantReadWriteData(grantee awsiam.IGrantable)
}

// Props configures the Dynamo construct.
type Props struct {
	// Identifier distinguishes this table from others in the same deployment.
	// Used in the table name and the parameter name.
	// Example: "updates" produces table "{project}-{env}-updates-table" and
	// parameter "/{env}/updates-table".
	Identifier *string
	// RemovalPolicy of the table, defaults to DESTROY.
	RemovalPolicy awscdk.RemovalPolicy
}

type dynamo struct {
	table     awsdynamodb.ITableV2
	paramName string
}

// New creates a Dynamo construct and stores the table name in SSM Parameter Store.
func New(scope constructs.Construct, props Props) Dynamo {
	identifier := "main"
	if props.Identifier != nil && *props.Identifier != "" {
		identifier = *props.Identifier
	}

	constructID := "Dynamo" + bwcdkutil.ResourceName(scope, identifier, bwcdkutil.CasingCamel)
	scope = constructs.NewConstruct(scope, jsii.String(constructID))
	con := &dynamo{paramName: identifier + "-table"}

	removalPolicy := props.RemovalPolicy
	if removalPolicy == "" {
		removalPolicy = awscdk.RemovalPolicy_DESTROY
	}

	tableName := bwcdkutil.ResourceName(scope, identifier+"-table", bwcdkutil.CasingKebab)
	con.table = awsdynamodb.NewTableV2(scope, jsii.String("Table"), &awsdynamodb.TablePropsV2{
		TableName:           jsii.String(tableName),
		PartitionKey:        &awsdynamodb.Attribute{Name: jsii.String("pk"), Type: awsdynamodb.AttributeType_STRING},
		SortKey:             &awsdynamodb.Attribute{Name: jsii.String("sk"), Type: awsdynamodb.AttributeType_STRING},
		Billing:             awsdynamodb.Billing_OnDemand(nil),
		TimeToLiveAttribute: jsii.String(TTLAttribute),
		RemovalPolicy:       removalPolicy,
	})

	bwcdkparams.Store(scope, "TableNameParam", con.paramName, jsii.String(tableName))

	return con
}

// LookupDynamo retrieves a DynamoDB table of the same deployment and region from SSM
// Parameter Store. Use this to get a table reference without creating cross-stack
// dependencies.
func LookupDynamo(scope constructs.Construct, identifier *string) awsdynamodb.ITableV2 {
	ident := "main"
	if identifier != nil && *identifier != "" {
		ident = *identifier
	}

	tableName := bwcdkparams.LookupLocal(scope, bwcdkparams.ParameterName(scope, ident+"-table"))
	return awsdynamodb.TableV2_FromTableName(scope, jsii.String("LookupDynamo"+bwcdkutil.ResourceName(
		scope, ident, bwcdkutil.CasingCamel)), tableName)
}

func (d *dynamo) Table() awsdynamodb.ITableV2 {
	return d.table
}

func (d *dynamo) ParamName() string {
	return d.paramName
}

func (d *dynamo) GrantReadData(grantee awsiam.IGrantable) {
	d.table.GrantReadData(grantee)
	d.grantIndexes(grantee, "dynamodb:Query", "dynamodb:Scan", "dynamodb:GetItem",
		"dynamodb:BatchGetItem", "dynamodb:ConditionCheckItem")
}

func (d *dynamo) GrantReadWriteData(grantee awsiam.IGrantable) {
	d.table.GrantReadWriteData(grantee)
	d.grantIndexes(grantee, "dynamodb:Query", "dynamodb:Scan", "dynamodb:GetItem",
		"dynamodb:BatchGetItem", "dynamodb:ConditionCheckItem")
}

func (d *dynamo) grantIndexes(grantee awsiam.IGrantable, actions ...string) {
	indexArn := jsii.Sprintf("%s/index/*", *d.table.TableArn())
	awsiam.Grant_AddToPrincipal(&awsiam.GrantOnPrincipalOptions{
		Grantee:      grantee,
		ResourceArns: &[]*string{indexArn},
		Actions:      jsii.Strings(actions...),
	})
}
