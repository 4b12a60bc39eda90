package model

type Case struct {
	CaseID     string `gorm:"column:case_id;primaryKey"`
	CaseNumber string `gorm:"column:case_number;type:text;not null;uniqueIndex"`
	Title      string `gorm:"column:title;type:text;not null"`
	Status     string `gorm:"column:status;type:text;not null;index"`
	CreatedAt  string `gorm:"column:created_at;type:text;not null"`
}

func (Case) TableName() string {
	return "cases"
}

// CaseEntity is a named party (person or organization) optionally linked to
// a case.
type CaseEntity struct {
	EntityID     string `gorm:"column:entity_id;primaryKey"`
	Name         string `gorm:"column:name;type:text;not null;index"`
	LinkedCaseID string `gorm:"column:linked_case_id;type:text;index"`
	CreatedAt    string `gorm:"column:created_at;type:text;not null"`
}

func (CaseEntity) TableName() string {
	return "case_entities"
}
