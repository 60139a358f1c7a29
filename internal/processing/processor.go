package processing

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"TalentSift-backend/internal/extract"
	"TalentSift-backend/internal/llm"
	"TalentSift-backend/internal/model"
	"TalentSift-backend/internal/utilities"
)

// failureReasonMaxLen bounds stored failure reasons; underlying driver and
// parser errors can be arbitrarily verbose.
const failureReasonMaxLen = 512

// Processor scores one resume against one job description per call. Every
// call terminates in exactly one of two resume states, processed or error,
// and always increments the owning JD's processed_resumes_count. The counter
// tracks attempts completed, not successes.
type Processor struct {
	db  *gorm.DB
	inv llm.Invoker
	log *zap.SugaredLogger
}

// NewProcessor builds a Processor. The invoker is shared across all items of
// one batch pass.
func NewProcessor(db *gorm.DB, inv llm.Invoker, log *zap.SugaredLogger) *Processor {
	return &Processor{db: db, inv: inv, log: log}
}

// Process runs the full per-resume pipeline: read both files, invoke the
// model, parse the reply, persist atomically. Failures are recorded on the
// resume row and never returned to the batch loop; the returned error is
// reserved for persistence problems the row itself could not capture.
func (p *Processor) Process(ctx context.Context, jd *model.JobDescription, resume *model.Resume, processedBy string) error {
	jdText, err := extract.ReadFileToText(jd.FileSavedLocation)
	if err != nil {
		return p.markError(jd, resume, fmt.Sprintf("JD read error: %v", err))
	}

	resumeText, err := extract.ReadFileToText(resume.FileLocation)
	if err != nil {
		return p.markError(jd, resume, fmt.Sprintf("Resume read error: %v", err))
	}

	raw, err := p.inv.Invoke(ctx, llm.ResumeAnalysisSystemPrompt, llm.BuildResumeAnalysisContent(jdText, resumeText))
	if err != nil {
		return p.markError(jd, resume, fmt.Sprintf("LLM invoke error: %v", err))
	}

	parsed := ParseModelOutput(raw, model.DimensionKeys)
	return p.persist(jd, resume, parsed, processedBy)
}

// markError transitions the resume to error and counts the attempt on the JD,
// as one transaction.
func (p *Processor) markError(jd *model.JobDescription, resume *model.Resume, reason string) error {
	p.log.Warnw("resume processing failed",
		"resume_id", resume.ResumeID,
		"jd_id", jd.JDID,
		"reason", utilities.Truncate(reason, failureReasonMaxLen),
	)

	return p.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Resume{}).
			Where("resume_id = ?", resume.ResumeID).
			Updates(map[string]interface{}{
				"status":         model.ResumeStatusError,
				"failure_reason": utilities.Truncate(reason, failureReasonMaxLen),
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.JobDescription{}).
			Where("jd_id = ?", jd.JDID).
			Update("processed_resumes_count", gorm.Expr("processed_resumes_count + 1")).Error
	})
}

// persist writes the analysis row, the resume mirror fields, and the JD
// counter as one atomic unit. A resume holds at most one live analysis row,
// so any prior row is removed first.
func (p *Processor) persist(jd *model.JobDescription, resume *model.Resume, parsed ParsedOutput, processedBy string) error {
	analysis := model.ResumeAnalysis{
		ResumeID:     resume.ResumeID,
		JDID:         jd.JDID,
		AnalysisJSON: parsed.RawJSON,
		MatchScore:   parsed.MatchScore,
		Summary:      parsed.Summary,
		Issues:       parsed.Issues,
		ProcessedBy:  &processedBy,
	}
	applyDimensions(&analysis, parsed.Dimensions)

	resumeUpdates := map[string]interface{}{
		"status":         model.ResumeStatusProcessed,
		"failure_reason": nil,
		"match_score":    parsed.MatchScore,
		"parsed_summary": parsed.Summary,
	}
	if len(parsed.Skills) > 0 {
		resumeUpdates["parsed_skills"] = pq.StringArray(parsed.Skills)
	}
	// Contact fields come from the model output and are written only when
	// present, so earlier extractions are never blanked out.
	if parsed.CandidateName != nil {
		resumeUpdates["candidate_name"] = *parsed.CandidateName
	}
	if parsed.CandidateEmail != nil {
		resumeUpdates["candidate_email"] = *parsed.CandidateEmail
	}
	if parsed.CandidatePhone != nil {
		resumeUpdates["candidate_phone"] = *parsed.CandidatePhone
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resume_id = ?", resume.ResumeID).Delete(&model.ResumeAnalysis{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&analysis).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Resume{}).Where("resume_id = ?", resume.ResumeID).Updates(resumeUpdates).Error; err != nil {
			return err
		}
		return tx.Model(&model.JobDescription{}).
			Where("jd_id = ?", jd.JDID).
			Update("processed_resumes_count", gorm.Expr("processed_resumes_count + 1")).Error
	})
	if err != nil {
		return fmt.Errorf("persist analysis for resume %d: %w", resume.ResumeID, err)
	}

	p.log.Infow("resume processed",
		"resume_id", resume.ResumeID,
		"jd_id", jd.JDID,
		"match_score", parsed.MatchScore,
		"processed_by", processedBy,
	)
	return nil
}

func applyDimensions(a *model.ResumeAnalysis, dims map[string]Dimension) {
	for key, d := range dims {
		switch key {
		case "tech_stack_match":
			a.TechStackMatchScore, a.TechStackMatchNote = d.Score, d.Note
		case "relevant_experience":
			a.RelevantExperienceScore, a.RelevantExperienceNote = d.Score, d.Note
		case "responsibilities_impact":
			a.ResponsibilitiesImpactScore, a.ResponsibilitiesImpactNote = d.Score, d.Note
		case "seniority_fit":
			a.SeniorityFitScore, a.SeniorityFitNote = d.Score, d.Note
		case "domain_fit":
			a.DomainFitScore, a.DomainFitNote = d.Score, d.Note
		case "red_flags_gaps":
			a.RedFlagsGapsScore, a.RedFlagsGapsNote = d.Score, d.Note
		case "communication_clarity":
			a.CommunicationClarityScore, a.CommunicationClarityNote = d.Score, d.Note
		case "soft_skills_professionalism":
			a.SoftSkillsProfessionalismScore, a.SoftSkillsProfessionalismNote = d.Score, d.Note
		case "project_complexity":
			a.ProjectComplexityScore, a.ProjectComplexityNote = d.Score, d.Note
		case "consistency_trajectory":
			a.ConsistencyTrajectoryScore, a.ConsistencyTrajectoryNote = d.Score, d.Note
		}
	}
}
