package dbmodels

type Space struct {
	BaseModel
	IsActive         bool
	OrganizationName string `gorm:"type:varchar(255)"` // Юридическое название компании
	Inn              string `gorm:"type:varchar(12)"`  // ИНН
	Kpp              string `gorm:"type:varchar(9)"`   // КПП
	DirectorName     string `gorm:"type:varchar(255)"`
}
