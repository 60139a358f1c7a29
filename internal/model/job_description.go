package model

import (
	"time"
)

// JDStatusActive is the default lifecycle status of a job description.
var JDStatusActive = "active"

// JobDescription is the gorm model for a job description record. It owns the
// aggregate resume counters: resumes_uploaded_count and processed_resumes_count
// only change through the defined attach/detach/move/process transitions.
type JobDescription struct {
	JDID              uint   `gorm:"column:jd_id;primaryKey;autoIncrement" json:"jd_id"`
	FileName          string `gorm:"type:text;not null" json:"file_name"`
	FileSavedLocation string `gorm:"type:text;not null" json:"file_saved_location"`

	// Filled by the JD analyze pass
	Title          *string    `gorm:"type:text" json:"title"`
	ParsedSummary  *string    `gorm:"type:text" json:"parsed_summary"`
	LastReviewedAt *time.Time `gorm:"type:timestamp" json:"last_reviewed_at"`
	LastReviewedBy *string    `gorm:"type:text" json:"last_reviewed_by"`

	ResumesUploadedCount  int `gorm:"not null;default:0" json:"resumes_uploaded_count"`
	ProcessedResumesCount int `gorm:"not null;default:0" json:"processed_resumes_count"`

	Status     string     `gorm:"type:text;not null;default:active" json:"status"`
	UploadedBy *string    `gorm:"type:text" json:"uploaded_by"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time  `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"type:timestamp" json:"updated_at"`

	Resumes []Resume `gorm:"foreignKey:JDID;references:JDID" json:"-"`
}
