package stageselect

import (
	"testing"

	"doc-flow-backend/lib/approval/approvalerrs"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func decPtr(v string) *decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return &d
}

func stageWithRange(id string, order int, from, to *decimal.Decimal) dbmodels.WorkflowStage {
	return dbmodels.WorkflowStage{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: id}},
		StageOrder:     order,
		AmountFrom:     from,
		AmountTo:       to,
	}
}

func TestSelectStage(t *testing.T) {
	NewHandler()

	t.Run(`без маршрутизации по сумме выбирается первый этап`, func(t *testing.T) {
		workflow := &dbmodels.ApprovalWorkflow{
			Stages: []dbmodels.WorkflowStage{
				stageWithRange("s2", 2, nil, nil),
				stageWithRange("s1", 1, nil, nil),
			},
		}
		stage, err := Instance.SelectStage(workflow, &dbmodels.DocSubmission{})
		require.NoError(t, err)
		require.Equal(t, "s1", stage.ID)
	})

	t.Run(`сумма попадает в полуинтервал этапа`, func(t *testing.T) {
		workflow := &dbmodels.ApprovalWorkflow{
			AmountField: "amount",
			Stages: []dbmodels.WorkflowStage{
				stageWithRange("s1", 1, decPtr("0"), decPtr("1000")),
				stageWithRange("s2", 2, decPtr("1000"), decPtr("10000")),
			},
		}
		submission := &dbmodels.DocSubmission{
			Data: dbmodels.SubmissionData{"amount": "1000"},
		}
		stage, err := Instance.SelectStage(workflow, submission)
		require.NoError(t, err)
		// нижняя граница включается, верхняя нет
		require.Equal(t, "s2", stage.ID)
	})

	t.Run(`граница "до" не входит в этап`, func(t *testing.T) {
		workflow := &dbmodels.ApprovalWorkflow{
			AmountField: "amount",
			Stages: []dbmodels.WorkflowStage{
				stageWithRange("s1", 1, decPtr("0"), decPtr("500")),
			},
		}
		submission := &dbmodels.DocSubmission{
			Data: dbmodels.SubmissionData{"amount": "500"},
		}
		_, err := Instance.SelectStage(workflow, submission)
		require.Error(t, err)
		require.True(t, errors.Is(err, approvalerrs.ErrNoEligibleStage))
	})

	t.Run(`вне диапазонов выбирается этап по умолчанию`, func(t *testing.T) {
		def := stageWithRange("sd", 3, nil, nil)
		def.IsDefault = true
		workflow := &dbmodels.ApprovalWorkflow{
			AmountField: "amount",
			Stages: []dbmodels.WorkflowStage{
				stageWithRange("s1", 1, decPtr("0"), decPtr("100")),
				def,
			},
		}
		submission := &dbmodels.DocSubmission{
			Data: dbmodels.SubmissionData{"amount": "250.50"},
		}
		stage, err := Instance.SelectStage(workflow, submission)
		require.NoError(t, err)
		require.Equal(t, "sd", stage.ID)
	})

	t.Run(`вне диапазонов без этапа по умолчанию - ошибка`, func(t *testing.T) {
		workflow := &dbmodels.ApprovalWorkflow{
			AmountField: "amount",
			Stages: []dbmodels.WorkflowStage{
				stageWithRange("s1", 1, decPtr("0"), decPtr("100")),
			},
		}
		submission := &dbmodels.DocSubmission{
			Data: dbmodels.SubmissionData{"amount": "200"},
		}
		_, err := Instance.SelectStage(workflow, submission)
		require.True(t, errors.Is(err, approvalerrs.ErrNoEligibleStage))
	})

	t.Run(`перепутанные границы диапазона - ошибка конфигурации`, func(t *testing.T) {
		workflow := &dbmodels.ApprovalWorkflow{
			AmountField: "amount",
			Stages: []dbmodels.WorkflowStage{
				stageWithRange("s1", 1, decPtr("1000"), decPtr("100")),
			},
		}
		submission := &dbmodels.DocSubmission{
			Data: dbmodels.SubmissionData{"amount": "500"},
		}
		_, err := Instance.SelectStage(workflow, submission)
		require.Error(t, err)
		require.False(t, errors.Is(err, approvalerrs.ErrNoEligibleStage))
	})

	t.Run(`отсутствует поле суммы`, func(t *testing.T) {
		workflow := &dbmodels.ApprovalWorkflow{
			AmountField: "amount",
			Stages: []dbmodels.WorkflowStage{
				stageWithRange("s1", 1, decPtr("0"), decPtr("100")),
			},
		}
		submission := &dbmodels.DocSubmission{
			Data: dbmodels.SubmissionData{"other": "1"},
		}
		_, err := Instance.SelectStage(workflow, submission)
		require.True(t, errors.Is(err, approvalerrs.ErrNoEligibleStage))
	})

	t.Run(`json-число как float64 читается без потери точности`, func(t *testing.T) {
		workflow := &dbmodels.ApprovalWorkflow{
			AmountField: "amount",
			Stages: []dbmodels.WorkflowStage{
				stageWithRange("s1", 1, decPtr("0.1"), decPtr("0.3")),
			},
		}
		submission := &dbmodels.DocSubmission{
			Data: dbmodels.SubmissionData{"amount": float64(0.2)},
		}
		stage, err := Instance.SelectStage(workflow, submission)
		require.NoError(t, err)
		require.Equal(t, "s1", stage.ID)
	})
}
