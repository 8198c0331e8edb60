package docnumberstore

import (
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	// Next следующий номер счетчика по типу документа.
	// Строка счетчика блокируется до конца транзакции,
	// конкурирующие запросы получают разные номера
	Next(spaceID, docType string) (number int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Next(spaceID, docType string) (number int64, err error) {
	rec := dbmodels.DocCounter{}
	err = i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("space_id = ?", spaceID).
		Where("doc_type = ?", docType).
		First(&rec).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		rec = dbmodels.DocCounter{
			BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: spaceID},
			DocType:        docType,
			LastNumber:     0,
		}
		if err = i.db.Create(&rec).Error; err != nil {
			return 0, err
		}
	}
	rec.LastNumber++
	err = i.db.
		Model(&dbmodels.DocCounter{}).
		Where("id = ?", rec.ID).
		Update("last_number", rec.LastNumber).
		Error
	if err != nil {
		return 0, err
	}
	return rec.LastNumber, nil
}
