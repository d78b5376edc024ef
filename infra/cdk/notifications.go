package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatchactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssns"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssnssubscriptions"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

const alarmTopicParam = "alarm-topic-arn"

// Notifications holds the alarm topic of a deployment.
type Notifications struct {
	Stack      awscdk.Stack
	AlarmTopic awssns.Topic
}

// NewNotifications creates the SNS topic every alarm of the deployment notifies, with
// an email subscription when alarm-email is configured.
func NewNotifications(stack awscdk.Stack) *Notifications {
	n := &Notifications{Stack: stack}

	n.AlarmTopic = awssns.NewTopic(stack, jsii.String("AlarmTopic"), &awssns.TopicProps{
		TopicName:   jsii.String(bwcdkutil.ResourceName(stack, "alarms", bwcdkutil.CasingKebab)),
		DisplayName: jsii.String("Morador " + bwcdkutil.EnvName(stack) + " alarms"),
	})

	if email := bwcdkutil.ConfigFromScope(stack).AlarmEmail; email != "" {
		n.AlarmTopic.AddSubscription(awssnssubscriptions.NewEmailSubscription(jsii.String(email), nil))
	}

	bwcdkparams.Store(stack, "AlarmTopicParam", alarmTopicParam, n.AlarmTopic.TopicArn())

	return n
}

// lookupAlarmTopic imports the alarm topic of the deployment.
func lookupAlarmTopic(scope constructs.Construct) awssns.ITopic {
	return awssns.Topic_FromTopicArn(scope, jsii.String("AlarmTopic"),
		bwcdkparams.LookupLocal(scope, bwcdkparams.ParameterName(scope, alarmTopicParam)))
}

// alarmOnFailure raises an alarm on the topic whenever the metric reports at least one
// failure within five minutes.
func alarmOnFailure(
	scope constructs.Construct, id, description string, metric awscloudwatch.IMetric, topic awssns.ITopic,
) awscloudwatch.Alarm {
	alarm := awscloudwatch.NewAlarm(scope, jsii.String(id), &awscloudwatch.AlarmProps{
		AlarmName:          jsii.String(bwcdkutil.ResourceName(scope, id, bwcdkutil.CasingKebab)),
		AlarmDescription:   jsii.String(description),
		Metric:             metric,
		EvaluationPeriods:  jsii.Number(1),
		Threshold:          jsii.Number(1),
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_OR_EQUAL_TO_THRESHOLD,
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
	alarm.AddAlarmAction(awscloudwatchactions.NewSnsAction(topic))

	return alarm
}
