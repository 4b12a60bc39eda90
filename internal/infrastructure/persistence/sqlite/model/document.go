package model

// Document rows are created by the intake worker on first successful fetch.
// The unique index on content_hash is what makes duplicate submissions
// resolve to one row; the insert path relies on it.
type Document struct {
	DocumentID    string  `gorm:"column:document_id;primaryKey"`
	ContentHash   string  `gorm:"column:content_hash;type:text;not null;uniqueIndex"`
	StorageKey    string  `gorm:"column:storage_key;type:text;not null"`
	FileName      string  `gorm:"column:file_name;type:text;not null"`
	SizeBytes     int64   `gorm:"column:size_bytes;not null;default:0"`
	MimeType      string  `gorm:"column:mime_type;type:text"`
	Status        string  `gorm:"column:status;type:text;not null;index"`
	Source        string  `gorm:"column:source;type:text;not null"`
	SourceRef     string  `gorm:"column:source_ref;type:text;not null"`
	Reason        string  `gorm:"column:reason;type:text;not null"`
	Score         float64 `gorm:"column:score;not null;default:0"`
	MatchedCaseID string  `gorm:"column:matched_case_id;type:text"`
	WorkflowRunID string  `gorm:"column:workflow_run_id;type:text"`
	CreatedAt     string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt     string  `gorm:"column:updated_at;type:text;not null"`
}

func (Document) TableName() string {
	return "documents"
}
