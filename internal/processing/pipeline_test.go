package processing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"TalentSift-backend/internal/config"
	"TalentSift-backend/internal/database"
	"TalentSift-backend/internal/model"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

// stubInvoker answers each call with a fixed reply or error and records the
// user turns it received.
type stubInvoker struct {
	reply string
	err   error
	calls []string
}

func (s *stubInvoker) Invoke(_ context.Context, _ string, userContent string) (string, error) {
	s.calls = append(s.calls, userContent)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestRunner(inv *stubInvoker) *Runner {
	cfg := &config.Config{ResumeProcessBatchSize: 10}
	return NewRunner(testDB, cfg, inv, zap.NewNop().Sugar())
}

// seedJD writes a JD file to dir and creates a fresh JD row, isolated from
// other tests' counters.
func seedJD(t *testing.T, dir, text string) *model.JobDescription {
	t.Helper()

	path := filepath.Join(dir, "jd.txt")
	assert.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	jd := model.JobDescription{
		FileName:          "jd.txt",
		FileSavedLocation: path,
		IsActive:          true,
	}
	assert.NoError(t, testDB.Create(&jd).Error)
	return &jd
}

// seedResume writes a resume file and creates the row attached to jd, keeping
// the uploaded counter in step like the upload endpoint does.
func seedResume(t *testing.T, dir string, jd *model.JobDescription, name, text string) *model.Resume {
	t.Helper()

	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	resume := model.Resume{
		JDID:         jd.JDID,
		FileName:     name,
		FileLocation: path,
		Status:       model.ResumeStatusNew,
		IsActive:     true,
	}
	err := testDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&resume).Error; err != nil {
			return err
		}
		return AttachResume(tx, jd.JDID)
	})
	assert.NoError(t, err)
	return &resume
}

func reloadJD(t *testing.T, jdID uint) model.JobDescription {
	t.Helper()
	var jd model.JobDescription
	assert.NoError(t, testDB.Where("jd_id = ?", jdID).First(&jd).Error)
	return jd
}

func reloadResume(t *testing.T, resumeID uint) model.Resume {
	t.Helper()
	var resume model.Resume
	assert.NoError(t, testDB.Where("resume_id = ?", resumeID).First(&resume).Error)
	return resume
}

func TestRunOnce_endToEnd(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "Looking for a Python backend engineer, 3+ years")
	resume := seedResume(t, dir, jd, "candidate.txt", "5 years Python, Django, AWS")

	inv := &stubInvoker{reply: `{"match_score": 82, "summary": "Strong backend fit", "dimensions": {"tech_stack_match": {"score": 9, "note": "Python/Django present"}}}`}
	runner := newTestRunner(inv)
	jdID := jd.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &jdID)

	assert.NoError(t, err)
	assert.Equal(t, 1, attempted)

	got := reloadResume(t, resume.ResumeID)
	assert.Equal(t, model.ResumeStatusProcessed, got.Status)
	assert.Nil(t, got.FailureReason)
	assert.NotNil(t, got.MatchScore)
	assert.Equal(t, 82.0, *got.MatchScore)
	assert.Equal(t, "Strong backend fit", *got.ParsedSummary)

	var analysis model.ResumeAnalysis
	assert.NoError(t, testDB.Where("resume_id = ?", resume.ResumeID).First(&analysis).Error)
	assert.Equal(t, 82.0, *analysis.MatchScore)
	assert.Equal(t, 9.0, *analysis.TechStackMatchScore)
	assert.Equal(t, "Python/Django present", *analysis.TechStackMatchNote)
	assert.Equal(t, "tester", *analysis.ProcessedBy)

	assert.Equal(t, 1, reloadJD(t, jd.JDID).ProcessedResumesCount)

	// The model saw exactly one JD/resume pair in the labeled layout.
	assert.Len(t, inv.calls, 1)
	assert.Contains(t, inv.calls[0], "JOB DESCRIPTION:\nLooking for a Python backend engineer")
	assert.Contains(t, inv.calls[0], "RESUME:\n5 years Python, Django, AWS")
}

func TestRunOnce_missingResumeFile(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	resume := seedResume(t, dir, jd, "ghost.txt", "irrelevant")
	assert.NoError(t, os.Remove(resume.FileLocation))

	runner := newTestRunner(&stubInvoker{reply: "{}"})
	jdID := jd.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &jdID)

	assert.NoError(t, err)
	assert.Equal(t, 1, attempted)

	got := reloadResume(t, resume.ResumeID)
	assert.Equal(t, model.ResumeStatusError, got.Status)
	assert.NotNil(t, got.FailureReason)
	assert.True(t, strings.HasPrefix(*got.FailureReason, "Resume read error:"), "got %q", *got.FailureReason)

	// Failed attempts still count on the JD.
	assert.Equal(t, 1, reloadJD(t, jd.JDID).ProcessedResumesCount)
}

func TestRunOnce_missingJDFile(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	resume := seedResume(t, dir, jd, "candidate.txt", "some resume")

	assert.NoError(t, os.Remove(jd.FileSavedLocation))

	inv := &stubInvoker{reply: "{}"}
	runner := newTestRunner(inv)
	jdID := jd.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &jdID)

	assert.NoError(t, err)
	assert.Equal(t, 1, attempted)
	assert.Empty(t, inv.calls)

	got := reloadResume(t, resume.ResumeID)
	assert.Equal(t, model.ResumeStatusError, got.Status)
	assert.True(t, strings.HasPrefix(*got.FailureReason, "JD read error:"))
	assert.Equal(t, 1, reloadJD(t, jd.JDID).ProcessedResumesCount)
}

func TestRunOnce_persistFailureLeavesNoPartialState(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	resume := seedResume(t, dir, jd, "candidate.txt", "some resume")

	// Block the analysis insert for this resume so the success transaction
	// rolls back after the model call.
	constraint := fmt.Sprintf("blocked_resume_%d", resume.ResumeID)
	assert.NoError(t, testDB.Exec(fmt.Sprintf(
		"ALTER TABLE resume_analyses ADD CONSTRAINT %s CHECK (resume_id <> %d)",
		constraint, resume.ResumeID,
	)).Error)
	defer func() {
		assert.NoError(t, testDB.Exec(fmt.Sprintf(
			"ALTER TABLE resume_analyses DROP CONSTRAINT %s", constraint,
		)).Error)
	}()

	runner := newTestRunner(&stubInvoker{reply: `{"match_score": 50, "summary": "fine"}`})
	jdID := jd.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &jdID)

	assert.NoError(t, err)
	assert.Equal(t, 1, attempted)

	// Nothing of the failed transaction is visible.
	got := reloadResume(t, resume.ResumeID)
	assert.Equal(t, model.ResumeStatusNew, got.Status)
	assert.Nil(t, got.FailureReason)
	assert.Nil(t, got.MatchScore)

	var analyses int64
	assert.NoError(t, testDB.Model(&model.ResumeAnalysis{}).
		Where("resume_id = ?", resume.ResumeID).
		Count(&analyses).Error)
	assert.Zero(t, analyses)
	assert.Equal(t, 0, reloadJD(t, jd.JDID).ProcessedResumesCount)
}

func TestRunOnce_invokeErrorDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	first := seedResume(t, dir, jd, "first.txt", "candidate one")
	second := seedResume(t, dir, jd, "second.txt", "candidate two")

	runner := newTestRunner(&stubInvoker{err: errors.New("connection refused")})
	jdID := jd.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &jdID)

	assert.NoError(t, err)
	assert.Equal(t, 2, attempted)

	for _, id := range []uint{first.ResumeID, second.ResumeID} {
		got := reloadResume(t, id)
		assert.Equal(t, model.ResumeStatusError, got.Status)
		assert.True(t, strings.HasPrefix(*got.FailureReason, "LLM invoke error:"))
	}
	assert.Equal(t, 2, reloadJD(t, jd.JDID).ProcessedResumesCount)
}

func TestRunOnce_failureReasonTruncated(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	resume := seedResume(t, dir, jd, "candidate.txt", "some resume")

	runner := newTestRunner(&stubInvoker{err: errors.New(strings.Repeat("x", 2000))})
	jdID := jd.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &jdID)

	assert.NoError(t, err)
	assert.Equal(t, 1, attempted)

	got := reloadResume(t, resume.ResumeID)
	assert.Equal(t, model.ResumeStatusError, got.Status)
	assert.True(t, strings.HasPrefix(*got.FailureReason, "LLM invoke error:"))
	assert.LessOrEqual(t, len(*got.FailureReason), 512)
}

func TestRunOnce_degradedModelOutput(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	resume := seedResume(t, dir, jd, "candidate.txt", "some resume")

	runner := newTestRunner(&stubInvoker{reply: "I am not JSON today"})
	jdID := jd.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &jdID)

	assert.NoError(t, err)
	assert.Equal(t, 1, attempted)

	got := reloadResume(t, resume.ResumeID)
	assert.Equal(t, model.ResumeStatusProcessed, got.Status)
	assert.Nil(t, got.MatchScore)

	var analysis model.ResumeAnalysis
	assert.NoError(t, testDB.Where("resume_id = ?", resume.ResumeID).First(&analysis).Error)
	assert.Equal(t, `{"raw":"I am not JSON today"}`, analysis.AnalysisJSON)
	assert.Nil(t, analysis.MatchScore)
}

func TestRunOnce_processedResumesNotRetried(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	seedResume(t, dir, jd, "candidate.txt", "some resume")

	inv := &stubInvoker{reply: `{"match_score": 50}`}
	runner := newTestRunner(inv)
	jdID := jd.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &jdID)
	assert.NoError(t, err)
	assert.Equal(t, 1, attempted)

	attempted, err = runner.RunOnce(context.Background(), "tester", &jdID)
	assert.NoError(t, err)
	assert.Equal(t, 0, attempted)

	assert.Len(t, inv.calls, 1)
	assert.Equal(t, 1, reloadJD(t, jd.JDID).ProcessedResumesCount)
}

func TestRunOnce_errorResumesStayEligible(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	resume := seedResume(t, dir, jd, "candidate.txt", "some resume")

	jdID := jd.JDID
	failing := newTestRunner(&stubInvoker{err: errors.New("model down")})
	attempted, err := failing.RunOnce(context.Background(), "tester", &jdID)
	assert.NoError(t, err)
	assert.Equal(t, 1, attempted)
	assert.Equal(t, model.ResumeStatusError, reloadResume(t, resume.ResumeID).Status)

	recovered := newTestRunner(&stubInvoker{reply: `{"match_score": 61}`})
	attempted, err = recovered.RunOnce(context.Background(), "tester", &jdID)
	assert.NoError(t, err)
	assert.Equal(t, 1, attempted)

	got := reloadResume(t, resume.ResumeID)
	assert.Equal(t, model.ResumeStatusProcessed, got.Status)
	assert.Nil(t, got.FailureReason)

	// Two completed attempts for this JD, one failed and one successful.
	assert.Equal(t, 2, reloadJD(t, jd.JDID).ProcessedResumesCount)
}

func TestRunOnce_danglingJDSkipped(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	orphan := seedResume(t, dir, jd, "orphan.txt", "orphan resume")

	// Detach the JD row directly, leaving the resume dangling.
	assert.NoError(t, testDB.Exec("DELETE FROM job_descriptions WHERE jd_id = ?", jd.JDID).Error)

	inv := &stubInvoker{reply: "{}"}
	runner := newTestRunner(inv)
	jdID := jd.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &jdID)

	assert.NoError(t, err)
	assert.Equal(t, 0, attempted)
	assert.Empty(t, inv.calls)

	// Skipped, not failed: status untouched.
	assert.Equal(t, model.ResumeStatusNew, reloadResume(t, orphan.ResumeID).Status)
}

func TestRunOnce_jdFilterScopesBatch(t *testing.T) {
	dir := t.TempDir()
	target := seedJD(t, dir, "target role")
	other := seedJD(t, dir, "other role")
	inTarget := seedResume(t, dir, target, "wanted.txt", "wanted")
	outside := seedResume(t, dir, other, "ignored.txt", "ignored")

	runner := newTestRunner(&stubInvoker{reply: `{"match_score": 10}`})
	targetID := target.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &targetID)

	assert.NoError(t, err)
	assert.Equal(t, 1, attempted)
	assert.Equal(t, model.ResumeStatusProcessed, reloadResume(t, inTarget.ResumeID).Status)
	assert.Equal(t, model.ResumeStatusNew, reloadResume(t, outside.ResumeID).Status)
	assert.Equal(t, 0, reloadJD(t, other.JDID).ProcessedResumesCount)
}

func TestRunOnce_batchSizeLimitAndOrder(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	first := seedResume(t, dir, jd, "a.txt", "resume a")
	second := seedResume(t, dir, jd, "b.txt", "resume b")
	third := seedResume(t, dir, jd, "c.txt", "resume c")

	inv := &stubInvoker{reply: `{"match_score": 5}`}
	runner := NewRunner(testDB, &config.Config{ResumeProcessBatchSize: 2}, inv, zap.NewNop().Sugar())
	jdID := jd.JDID

	attempted, err := runner.RunOnce(context.Background(), "tester", &jdID)

	assert.NoError(t, err)
	assert.Equal(t, 2, attempted)
	assert.Equal(t, model.ResumeStatusProcessed, reloadResume(t, first.ResumeID).Status)
	assert.Equal(t, model.ResumeStatusProcessed, reloadResume(t, second.ResumeID).Status)
	assert.Equal(t, model.ResumeStatusNew, reloadResume(t, third.ResumeID).Status)
}

func TestRunOnce_contactWrittenOntoResume(t *testing.T) {
	dir := t.TempDir()
	jd := seedJD(t, dir, "any role")
	resume := seedResume(t, dir, jd, "candidate.txt", "resume text")

	runner := newTestRunner(&stubInvoker{reply: `{"match_score": 70, "candidate_name": "Jane Doe", "email": "jane@example.com"}`})
	jdID := jd.JDID

	_, err := runner.RunOnce(context.Background(), "tester", &jdID)
	assert.NoError(t, err)

	got := reloadResume(t, resume.ResumeID)
	assert.Equal(t, "Jane Doe", *got.CandidateName)
	assert.Equal(t, "jane@example.com", *got.CandidateEmail)
	assert.Nil(t, got.CandidatePhone)
}
