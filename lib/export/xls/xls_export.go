package xlsexport

import (
	"bytes"

	approvalapimodels "doc-flow-backend/models/api/approval"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	// ExportSubmissionList реестр документов
	ExportSubmissionList(list []approvalapimodels.SubmissionView) (*bytes.Buffer, error)
	// ExportHistory журнал решений по документу
	ExportHistory(list []approvalapimodels.ApprovalHistoryView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var submissionHeaders = []string{"Номер", "Тип", "Название", "Автор", "Статус", "Подписание", "Круг", "Дата создания"}
var historyHeaders = []string{"Этап", "Круг", "Действие", "Кто принял решение", "За кого", "Комментарий", "Дата"}

func (i impl) ExportSubmissionList(list []approvalapimodels.SubmissionView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, submissionHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeSubmissionData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Документы")
	return f.WriteToBuffer()
}

func writeSubmissionData(f *excelize.File, sheet string, list []approvalapimodels.SubmissionView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(submissionHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.DocNumber,
			item.DocType,
			item.Title,
			item.AuthorName,
			string(item.Status),
			string(item.SignatureStatus),
			item.Cycle,
			item.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, value := range values {
			if err := writeColumn(f, sheet, col+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func (i impl) ExportHistory(list []approvalapimodels.ApprovalHistoryView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, historyHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if err = applyDataCellStyle(f, sheet, 1, row+1, len(historyHeaders), len(list)+1); err != nil {
		return nil, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.StageID,
			item.Cycle,
			string(item.Action),
			item.ActedByName,
			item.OriginalUserID,
			item.Comment,
			item.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, value := range values {
			if err := writeColumn(f, sheet, col+1, row, value); err != nil {
				return nil, err
			}
		}
	}
	f.SetSheetName(sheet, "Журнал согласования")
	return f.WriteToBuffer()
}
