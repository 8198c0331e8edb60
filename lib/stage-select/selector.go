package stageselect

import (
	"fmt"

	"doc-flow-backend/lib/approval/approvalerrs"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Provider interface {
	SelectStage(workflow *dbmodels.ApprovalWorkflow, submission *dbmodels.DocSubmission) (*dbmodels.WorkflowStage, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

// SelectStage выбирает этап для поданного документа.
// Без маршрутизации по сумме - первый этап по порядку.
// С маршрутизацией - этап, в чей полуинтервал [от, до) попала сумма,
// иначе этап по умолчанию, иначе ошибка
func (i impl) SelectStage(workflow *dbmodels.ApprovalWorkflow, submission *dbmodels.DocSubmission) (*dbmodels.WorkflowStage, error) {
	if workflow == nil || len(workflow.Stages) == 0 {
		return nil, errors.Wrap(approvalerrs.ErrNoEligibleStage, "в процессе не заданы этапы")
	}
	if !workflow.AmountGated() {
		return workflow.FirstStage(), nil
	}

	amount, err := readAmount(workflow.AmountField, submission)
	if err != nil {
		return nil, err
	}

	var defaultStage *dbmodels.WorkflowStage
	for k := range workflow.Stages {
		stage := &workflow.Stages[k]
		if err := stage.ValidateRange(); err != nil {
			// дефект конфигурации процесса, переход прерывается
			return nil, errors.Wrapf(err, "некорректный диапазон этапа %v процесса %v", stage.StageOrder, workflow.ID)
		}
		if stage.IsDefault && defaultStage == nil {
			defaultStage = stage
		}
		if stage.InRange(amount) {
			return stage, nil
		}
	}
	if defaultStage != nil {
		return defaultStage, nil
	}
	return nil, errors.Wrapf(approvalerrs.ErrNoEligibleStage, "сумма %v вне диапазонов этапов", amount)
}

// readAmount точное десятичное значение поля суммы из данных документа,
// без плавающей точки
func readAmount(fieldCode string, submission *dbmodels.DocSubmission) (decimal.Decimal, error) {
	if submission == nil || submission.Data == nil {
		return decimal.Zero, errors.Wrap(approvalerrs.ErrNoEligibleStage, "в документе нет данных для маршрутизации по сумме")
	}
	raw, ok := submission.Data[fieldCode]
	if !ok {
		return decimal.Zero, errors.Wrapf(approvalerrs.ErrNoEligibleStage, "в документе отсутствует поле суммы %v", fieldCode)
	}
	switch v := raw.(type) {
	case string:
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "некорректное значение поля суммы %v", fieldCode)
		}
		return amount, nil
	case float64:
		// json-числа приходят как float64, переводим через строку без потери точности
		return decimal.NewFromString(fmt.Sprintf("%v", v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	return decimal.Zero, errors.Errorf("неподдерживаемый тип значения поля суммы %v", fieldCode)
}
