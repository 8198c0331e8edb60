package docnumberhandler

import (
	"fmt"
	"strings"
	"time"

	"doc-flow-backend/db"
	docnumberstore "doc-flow-backend/lib/doc-number/store"
	submissionstore "doc-flow-backend/lib/submission/store"

	"gorm.io/gorm"
)

type Provider interface {
	// AssignNumber присваивает документу регистрационный номер при первой подаче.
	// Повторная подача после доработки номер не меняет
	AssignNumber(spaceID, submissionID string) (number string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db: db.DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) AssignNumber(spaceID, submissionID string) (number string, err error) {
	err = i.db.Transaction(func(tx *gorm.DB) error {
		submissions := submissionstore.NewInstance(tx)
		rec, err := submissions.GetByIDLocked(spaceID, submissionID)
		if err != nil {
			return err
		}
		if rec == nil || rec.DocNumber != "" {
			return nil
		}
		next, err := docnumberstore.NewInstance(tx).Next(spaceID, rec.DocType)
		if err != nil {
			return err
		}
		number = formatNumber(rec.DocType, next)
		return submissions.Update(spaceID, submissionID, map[string]interface{}{
			"doc_number": number,
		})
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

func formatNumber(docType string, number int64) string {
	prefix := []rune(strings.ToUpper(docType))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s-%d-%06d", string(prefix), time.Now().Year(), number)
}
