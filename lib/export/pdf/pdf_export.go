package pdfexport

import (
	"bytes"
	"fmt"

	approvalapimodels "doc-flow-backend/models/api/approval"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// GenerateApprovalSheet лист согласования документа:
// реквизиты и журнал решений на A4
func GenerateApprovalSheet(submission approvalapimodels.SubmissionView, history []approvalapimodels.ApprovalHistoryView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateApprovalSheet panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "static/font/")
	pdf.AddPage()
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	pdf.SetFont("Arial", "B", 14)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	pdf.CellFormat(0, 10, "Лист согласования", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.Ln(4)

	writeRequisite(pdf, "Номер", submission.DocNumber)
	writeRequisite(pdf, "Тип документа", submission.DocType)
	writeRequisite(pdf, "Название", submission.Title)
	writeRequisite(pdf, "Автор", submission.AuthorName)
	writeRequisite(pdf, "Статус", string(submission.Status))
	writeRequisite(pdf, "Подписание", string(submission.SignatureStatus))
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	widths := []float64{35, 12, 35, 45, 38, 25}
	headers := []string{"Действие", "Круг", "Кто", "Комментарий", "За кого", "Дата"}
	for k, header := range headers {
		pdf.CellFormat(widths[k], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range history {
		cells := []string{
			string(item.Action),
			fmt.Sprintf("%d", item.Cycle),
			item.ActedByName,
			item.Comment,
			item.OriginalUserID,
			item.CreatedAt.Format("02.01.2006 15:04"),
		}
		for k, cell := range cells {
			pdf.CellFormat(widths[k], 8, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRequisite(pdf *fpdf.Fpdf, name, value string) {
	if value == "" {
		return
	}
	pdf.CellFormat(45, 7, name+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}
