package dbmodels

// DocCounter счетчик номеров документов по типу в рамках спейса
type DocCounter struct {
	BaseSpaceModel
	DocType    string `gorm:"type:varchar(100);index"`
	LastNumber int64
}
