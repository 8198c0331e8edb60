package initializers

import (
	"context"

	"doc-flow-backend/config"
	"doc-flow-backend/fiberlog"
	approvalhandler "doc-flow-backend/lib/approval"
	approverresolver "doc-flow-backend/lib/approver"
	delegationhandler "doc-flow-backend/lib/delegation"
	delegationexpireworker "doc-flow-backend/lib/delegation/expire-worker"
	docnumberhandler "doc-flow-backend/lib/doc-number"
	erpclient "doc-flow-backend/lib/erp"
	xlsexport "doc-flow-backend/lib/export/xls"
	signaturehandler "doc-flow-backend/lib/signature"
	spaceauthhandler "doc-flow-backend/lib/space/auth"
	spaceusershandler "doc-flow-backend/lib/space/users"
	stageselect "doc-flow-backend/lib/stage-select"
	submissionhandler "doc-flow-backend/lib/submission"
	"doc-flow-backend/lib/trigger"
	triggerconsumers "doc-flow-backend/lib/trigger/consumers"
	workflowhandler "doc-flow-backend/lib/workflow"
	connectionhub "doc-flow-backend/lib/ws/hub"
	"doc-flow-backend/models"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	connectionhub.Init()
	stageselect.NewHandler()
	delegationhandler.NewHandler()
	approverresolver.NewHandler()
	workflowhandler.NewHandler()
	submissionhandler.NewHandler()
	approvalhandler.NewHandler()
	docnumberhandler.NewHandler()
	signaturehandler.NewHandler()
	spaceauthhandler.NewHandler()
	spaceusershandler.NewHandler()
	xlsexport.NewHandler()
	erpclient.NewProvider()
	initTrigger(ctx)
	go initWorkers(ctx)
}

// initTrigger очередь событий и обработчики, запускается после хендлеров
func initTrigger(ctx context.Context) {
	trigger.NewHandler(config.Conf.Trigger.QueueSize)
	notify := triggerconsumers.NewNotifyConsumer()
	trigger.Instance.Register(models.TriggerSubmitted, triggerconsumers.DocNumberConsumer{})
	trigger.Instance.Register(models.TriggerStageActivated, notify)
	trigger.Instance.Register(models.TriggerSignatureRequired, triggerconsumers.SignRequestConsumer{})
	trigger.Instance.Register(models.TriggerApproved, notify)
	trigger.Instance.Register(models.TriggerRejected, notify)
	trigger.Instance.Register(models.TriggerReturned, notify)
	trigger.Instance.Register(models.TriggerCompleted, triggerconsumers.NewErpConsumer())
	trigger.Instance.Start(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача деактивации истекших замещений
	delegationexpireworker.StartWorker(ctx)
}
