package model

import "time"

// DimensionKeys is the fixed set of evaluation axes the scoring model reports,
// in storage order.
var DimensionKeys = []string{
	"tech_stack_match",
	"relevant_experience",
	"responsibilities_impact",
	"seniority_fit",
	"domain_fit",
	"red_flags_gaps",
	"communication_clarity",
	"soft_skills_professionalism",
	"project_complexity",
	"consistency_trajectory",
}

// ResumeAnalysis is the gorm model for the scoring result of one resume
// against one job description. A resume has at most one live analysis row;
// prior rows are deleted, not versioned, when reprocessing is triggered.
//
// Dimension scores live in [0,10] and match_score in [0,100] when present.
// Out of range or non numeric values from a malformed model response are
// stored as NULL rather than clamped.
type ResumeAnalysis struct {
	AnalysisID uint `gorm:"column:analysis_id;primaryKey;autoIncrement" json:"analysis_id"`

	ResumeID uint `gorm:"column:resume_id;not null;index" json:"resume_id"`
	JDID     uint `gorm:"column:jd_id;not null;index" json:"jd_id"`

	// Raw model output, opaque JSON (or a {"raw": ...} wrapper when the model
	// answer was not valid JSON).
	AnalysisJSON string `gorm:"type:text;not null" json:"analysis_json"`

	MatchScore *float64 `json:"match_score"`
	Summary    *string  `gorm:"type:text" json:"summary"`
	Issues     *string  `gorm:"type:text" json:"issues"`

	TechStackMatchScore *float64 `json:"tech_stack_match_score"`
	TechStackMatchNote  *string  `gorm:"type:text" json:"tech_stack_match_note"`

	RelevantExperienceScore *float64 `json:"relevant_experience_score"`
	RelevantExperienceNote  *string  `gorm:"type:text" json:"relevant_experience_note"`

	ResponsibilitiesImpactScore *float64 `json:"responsibilities_impact_score"`
	ResponsibilitiesImpactNote  *string  `gorm:"type:text" json:"responsibilities_impact_note"`

	SeniorityFitScore *float64 `json:"seniority_fit_score"`
	SeniorityFitNote  *string  `gorm:"type:text" json:"seniority_fit_note"`

	DomainFitScore *float64 `json:"domain_fit_score"`
	DomainFitNote  *string  `gorm:"type:text" json:"domain_fit_note"`

	RedFlagsGapsScore *float64 `json:"red_flags_gaps_score"`
	RedFlagsGapsNote  *string  `gorm:"type:text" json:"red_flags_gaps_note"`

	CommunicationClarityScore *float64 `json:"communication_clarity_score"`
	CommunicationClarityNote  *string  `gorm:"type:text" json:"communication_clarity_note"`

	SoftSkillsProfessionalismScore *float64 `json:"soft_skills_professionalism_score"`
	SoftSkillsProfessionalismNote  *string  `gorm:"type:text" json:"soft_skills_professionalism_note"`

	ProjectComplexityScore *float64 `json:"project_complexity_score"`
	ProjectComplexityNote  *string  `gorm:"type:text" json:"project_complexity_note"`

	ConsistencyTrajectoryScore *float64 `json:"consistency_trajectory_score"`
	ConsistencyTrajectoryNote  *string  `gorm:"type:text" json:"consistency_trajectory_note"`

	ProcessedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"processed_at"`
	ProcessedBy *string   `gorm:"type:text" json:"processed_by"`
}
