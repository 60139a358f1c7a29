package model

import (
	"time"

	"github.com/lib/pq"
)

var (
	// ResumeStatusNew indicates the resume has been uploaded but not processed yet
	ResumeStatusNew = "new"
	// ResumeStatusProcessed indicates analysis completed (possibly degraded)
	ResumeStatusProcessed = "processed"
	// ResumeStatusError indicates the last processing attempt failed; the resume
	// stays eligible for the next batch pass
	ResumeStatusError = "error"
)

// Resume is the gorm model for an uploaded candidate resume. jd_id is mutable:
// a resume may be moved to another job description, which resets its
// processing state.
type Resume struct {
	ResumeID uint `gorm:"column:resume_id;primaryKey;autoIncrement" json:"resume_id"`

	JDID           uint           `gorm:"column:jd_id;not null;index" json:"jd_id"`
	JobDescription JobDescription `gorm:"foreignKey:JDID;references:JDID" json:"-"`

	FileName     string `gorm:"type:text;not null" json:"file_name"`
	FileLocation string `gorm:"type:text;not null" json:"file_location"`

	// Candidate contact, populated only from analysis output, never invented
	// and never overwritten with empty values.
	CandidateName  *string `gorm:"type:text" json:"candidate_name"`
	CandidateEmail *string `gorm:"type:text" json:"candidate_email"`
	CandidatePhone *string `gorm:"type:text" json:"candidate_phone"`

	// Mirrors of the latest analysis for quick listing.
	ParsedSummary *string        `gorm:"type:text" json:"parsed_summary"`
	ParsedSkills  pq.StringArray `gorm:"type:text[]" json:"parsed_skills"`
	MatchScore    *float64       `json:"match_score"`

	Status         string  `gorm:"type:text;not null;default:new" json:"status"`
	FailureReason  *string `gorm:"type:text" json:"failure_reason"`
	BusinessStatus *string `gorm:"type:text" json:"business_status"`

	UploadedBy *string    `gorm:"type:text" json:"uploaded_by"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time  `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"type:timestamp" json:"updated_at"`
}
