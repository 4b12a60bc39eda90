package model

type Rejection struct {
	SubmissionID   string `gorm:"column:submission_id;primaryKey"`
	Source         string `gorm:"column:source;type:text;not null"`
	SourceRef      string `gorm:"column:source_ref;type:text;not null"`
	SourceHash     string `gorm:"column:source_hash;type:text"`
	FileName       string `gorm:"column:file_name;type:text;not null"`
	SizeBytes      int64  `gorm:"column:size_bytes;not null;default:0"`
	MimeType       string `gorm:"column:mime_type;type:text"`
	SubmittedBy    string `gorm:"column:submitted_by;type:text"`
	Reason         string `gorm:"column:reason;type:text;not null"`
	Detail         string `gorm:"column:detail;type:text;not null"`
	CanRetry       bool   `gorm:"column:can_retry;not null;default:0"`
	RetryHintsJSON string `gorm:"column:retry_hints_json;type:text;not null"`
	HintsJSON      string `gorm:"column:hints_json;type:text;not null"`
	ArchiveKey     string `gorm:"column:archive_key;type:text"`
	RejectedAt     string `gorm:"column:rejected_at;type:text;not null;index"`
}

func (Rejection) TableName() string {
	return "rejections"
}
