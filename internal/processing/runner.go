package processing

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"TalentSift-backend/internal/config"
	"TalentSift-backend/internal/database"
	"TalentSift-backend/internal/llm"
	"TalentSift-backend/internal/model"
)

// Runner drives batch passes over pending resumes. Both the background worker
// loop and the on-demand API trigger call into the same RunOnce.
type Runner struct {
	DB      *database.DBinstanceStruct
	Cfg     *config.Config
	Invoker llm.Invoker
	Log     *zap.SugaredLogger
}

// NewRunner wires a Runner from its dependencies.
func NewRunner(db *database.DBinstanceStruct, cfg *config.Config, inv llm.Invoker, log *zap.SugaredLogger) *Runner {
	return &Runner{DB: db, Cfg: cfg, Invoker: inv, Log: log}
}

// selectPending returns the next batch of resumes eligible for processing.
// new and error resumes are both eligible; ordering by resume_id keeps the
// batch stable so no resume starves behind later uploads. Read-only.
func (r *Runner) selectPending(jdFilter *uint) ([]model.Resume, error) {
	q := r.DB.Model(&model.Resume{}).
		Where("status <> ?", model.ResumeStatusProcessed).
		Order("resume_id ASC").
		Limit(r.Cfg.ResumeProcessBatchSize)
	if jdFilter != nil {
		q = q.Where("jd_id = ?", *jdFilter)
	}

	var pending []model.Resume
	if err := q.Find(&pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

// RunOnce processes one batch sequentially and returns the number of resumes
// attempted. Per-item failures are recorded on the resume rows and do not
// abort the pass. Resumes whose JD row is missing are skipped and not counted
// as attempted. An empty batch returns 0.
func (r *Runner) RunOnce(ctx context.Context, processedBy string, jdFilter *uint) (int, error) {
	pending, err := r.selectPending(jdFilter)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	processor := NewProcessor(r.DB.DB, r.Invoker, r.Log)

	attempted := 0
	for i := range pending {
		resume := &pending[i]

		var jd model.JobDescription
		err := r.DB.Where("jd_id = ?", resume.JDID).First(&jd).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				r.Log.Warnw("skipping resume with missing job description",
					"resume_id", resume.ResumeID,
					"jd_id", resume.JDID,
				)
				continue
			}
			return attempted, err
		}

		attempted++
		if err := processor.Process(ctx, &jd, resume, processedBy); err != nil {
			r.Log.Errorw("resume processing persistence failed",
				"resume_id", resume.ResumeID,
				"error", err,
			)
		}
	}

	return attempted, nil
}
