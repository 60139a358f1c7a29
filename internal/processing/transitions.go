package processing

import (
	"gorm.io/gorm"

	"TalentSift-backend/internal/model"
)

// The functions here are the only writers of resumes_uploaded_count and
// processed_resumes_count outside the per-item processor. They take a *gorm.DB
// so callers can compose them into larger transactions. Decrements clamp at
// zero to tolerate counter drift from concurrent operations.

// AttachResume records a new resume under a job description.
func AttachResume(tx *gorm.DB, jdID uint) error {
	return tx.Model(&model.JobDescription{}).
		Where("jd_id = ?", jdID).
		Update("resumes_uploaded_count", gorm.Expr("resumes_uploaded_count + 1")).Error
}

// DetachResume removes a resume, its analysis rows, and its contribution to
// the owning JD's counters. The processed counter only drops when the resume
// had actually been processed.
func DetachResume(tx *gorm.DB, resume *model.Resume) error {
	if err := tx.Where("resume_id = ?", resume.ResumeID).Delete(&model.ResumeAnalysis{}).Error; err != nil {
		return err
	}
	if err := tx.Where("resume_id = ?", resume.ResumeID).Delete(&model.Resume{}).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"resumes_uploaded_count": gorm.Expr("GREATEST(resumes_uploaded_count - 1, 0)"),
	}
	if resume.Status == model.ResumeStatusProcessed {
		updates["processed_resumes_count"] = gorm.Expr("GREATEST(processed_resumes_count - 1, 0)")
	}
	return tx.Model(&model.JobDescription{}).
		Where("jd_id = ?", resume.JDID).
		Updates(updates).Error
}

// MoveResume reassigns a resume to another job description. The old JD loses
// the resume from its counters using the pre-move status, the new JD gains an
// upload, and the resume itself resets to new: cleared failure reason, cleared
// analysis mirrors, and no surviving analysis row. Its next batch pass scores
// it against the new JD.
func MoveResume(tx *gorm.DB, resume *model.Resume, newJDID uint) error {
	oldUpdates := map[string]interface{}{
		"resumes_uploaded_count": gorm.Expr("GREATEST(resumes_uploaded_count - 1, 0)"),
	}
	if resume.Status == model.ResumeStatusProcessed {
		oldUpdates["processed_resumes_count"] = gorm.Expr("GREATEST(processed_resumes_count - 1, 0)")
	}
	if err := tx.Model(&model.JobDescription{}).
		Where("jd_id = ?", resume.JDID).
		Updates(oldUpdates).Error; err != nil {
		return err
	}

	if err := tx.Model(&model.JobDescription{}).
		Where("jd_id = ?", newJDID).
		Update("resumes_uploaded_count", gorm.Expr("resumes_uploaded_count + 1")).Error; err != nil {
		return err
	}

	if err := tx.Where("resume_id = ?", resume.ResumeID).Delete(&model.ResumeAnalysis{}).Error; err != nil {
		return err
	}

	return tx.Model(&model.Resume{}).
		Where("resume_id = ?", resume.ResumeID).
		Updates(map[string]interface{}{
			"jd_id":          newJDID,
			"status":         model.ResumeStatusNew,
			"failure_reason": nil,
			"match_score":    nil,
			"parsed_summary": nil,
			"parsed_skills":  nil,
		}).Error
}
