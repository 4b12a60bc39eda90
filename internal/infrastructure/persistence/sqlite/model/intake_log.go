package model

type IntakeLog struct {
	LogID         uint64  `gorm:"column:log_id;primaryKey;autoIncrement"`
	SubmissionID  string  `gorm:"column:submission_id;type:text;not null;index"`
	Outcome       string  `gorm:"column:outcome;type:text;not null;index"`
	Reason        string  `gorm:"column:reason;type:text;not null"`
	Score         float64 `gorm:"column:score;not null;default:0"`
	Priority      int     `gorm:"column:priority;not null;default:0"`
	DocumentID    string  `gorm:"column:document_id;type:text"`
	WorkflowRunID string  `gorm:"column:workflow_run_id;type:text"`
	Source        string  `gorm:"column:source;type:text"`
	FileName      string  `gorm:"column:file_name;type:text"`
	Detail        string  `gorm:"column:detail;type:text"`
	ElapsedMS     int64   `gorm:"column:elapsed_ms;not null;default:0"`
	CreatedAt     string  `gorm:"column:created_at;type:text;not null;index"`
}

func (IntakeLog) TableName() string {
	return "intake_log"
}
