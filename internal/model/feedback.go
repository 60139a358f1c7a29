package model

import "time"

// ResumeFeedback is a human judgment on a resume for a specific JD.
// Rows are append-only and never mutated; a resume may collect any number
// of feedback entries.
type ResumeFeedback struct {
	FeedbackID uint `gorm:"column:feedback_id;primaryKey;autoIncrement" json:"feedback_id"`

	ResumeID uint `gorm:"column:resume_id;not null;index" json:"resume_id"`
	JDID     uint `gorm:"column:jd_id;not null;index" json:"jd_id"`

	UserName string  `gorm:"type:text;not null" json:"user_name"`
	Label    string  `gorm:"type:text;not null" json:"label"`
	Comment  *string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}
