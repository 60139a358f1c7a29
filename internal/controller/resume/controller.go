// Package resume provides HTTP handlers for resume management: upload,
// listing, lifecycle transitions, analysis retrieval, feedback, and the
// on-demand processing trigger.
package resume

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"TalentSift-backend/internal/config"
	"TalentSift-backend/internal/database"
	"TalentSift-backend/internal/model"
	"TalentSift-backend/internal/processing"
	"TalentSift-backend/internal/utilities"
)

// maxFilesPerUpload bounds one upload request.
const maxFilesPerUpload = 10

// .doc is accepted here but has no readable extractor; processing records the
// failure on the resume row instead of blocking the upload.
var allowedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Controller handles resume related endpoints.
type Controller struct {
	DB     *database.DBinstanceStruct
	Cfg    *config.Config
	Runner *processing.Runner
	Log    *zap.SugaredLogger
}

// NewController creates a new instance of Controller.
func NewController(db *database.DBinstanceStruct, cfg *config.Config, runner *processing.Runner, log *zap.SugaredLogger) *Controller {
	return &Controller{
		DB:     db,
		Cfg:    cfg,
		Runner: runner,
		Log:    log,
	}
}

// Upload stores up to ten resume files under one job description. Each stored
// file creates a resume row in status new and bumps the JD's uploaded counter
// in the same transaction.
func (rc *Controller) Upload(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jdID, ok := rc.queryJDID(c, true)
	if !ok {
		return
	}

	var jd model.JobDescription
	if err := rc.DB.Where("jd_id = ?", jdID).First(&jd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job description not found"})
		} else {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Database error: %s", err.Error()),
			})
		}
		return
	}

	form, err := c.MultipartForm()
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse multipart form: %s", err.Error()),
		})
		return
	}

	files := form.File["resumes"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "No resume files provided"})
		return
	}
	if len(files) > maxFilesPerUpload {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Too many files: at most %d per upload", maxFilesPerUpload),
		})
		return
	}

	for _, f := range files {
		extension := strings.ToLower(filepath.Ext(f.Filename))
		if !allowedExtensions[extension] {
			c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
				Error: fmt.Sprintf("Unsupported file extension: %s", extension),
			})
			return
		}
	}

	if err := os.MkdirAll(rc.Cfg.UploadDirResume, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to prepare upload directory: %s", err.Error()),
		})
		return
	}

	created := make([]model.Resume, 0, len(files))
	for _, f := range files {
		extension := strings.ToLower(filepath.Ext(f.Filename))
		savedPath := filepath.Join(rc.Cfg.UploadDirResume, uuid.NewString()+extension)
		if err := c.SaveUploadedFile(f, savedPath); err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to store file %s: %s", f.Filename, err.Error()),
			})
			return
		}

		resume := model.Resume{
			JDID:         jd.JDID,
			FileName:     f.Filename,
			FileLocation: savedPath,
			Status:       model.ResumeStatusNew,
			UploadedBy:   &user.Username,
			IsActive:     true,
		}
		err := rc.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&resume).Error; err != nil {
				return err
			}
			return processing.AttachResume(tx, jd.JDID)
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create resume record: %s", err.Error()),
			})
			return
		}
		created = append(created, resume)
	}

	rc.Log.Infow("resumes uploaded", "jd_id", jd.JDID, "count", len(created), "uploaded_by", user.Username)
	c.JSON(http.StatusCreated, created)
}

// List returns resumes, optionally scoped to one job description.
func (rc *Controller) List(c *gin.Context) {
	q := rc.DB.Model(&model.Resume{}).Order("resume_id ASC")

	if jdID, ok := rc.queryJDID(c, false); ok && jdID != nil {
		q = q.Where("jd_id = ?", *jdID)
	} else if !ok {
		return
	}

	var resumes []model.Resume
	if err := q.Find(&resumes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve resumes: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, resumes)
}

// Download sends the stored resume file as an attachment.
func (rc *Controller) Download(c *gin.Context) {
	resume, ok := rc.findResume(c)
	if !ok {
		return
	}

	if _, err := os.Stat(resume.FileLocation); err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Resume file not found on disk"})
		return
	}

	c.FileAttachment(resume.FileLocation, resume.FileName)
}

// Delete removes a resume, its analyses, and its counter contribution, then
// removes the stored file. File removal is best effort.
func (rc *Controller) Delete(c *gin.Context) {
	resume, ok := rc.findResume(c)
	if !ok {
		return
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		return processing.DetachResume(tx, &resume)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete resume: %s", err.Error()),
		})
		return
	}

	if err := os.Remove(resume.FileLocation); err != nil && !os.IsNotExist(err) {
		rc.Log.Warnw("failed to remove resume file", "path", resume.FileLocation, "error", err)
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Resume deleted"})
}

type statusInfo struct {
	BusinessStatus string `json:"business_status" binding:"required"`
}

// UpdateStatus sets the recruiter facing business status. The processing
// status machine is not reachable from here.
func (rc *Controller) UpdateStatus(c *gin.Context) {
	resume, ok := rc.findResume(c)
	if !ok {
		return
	}

	var info statusInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "business_status must be provided"})
		return
	}

	if err := rc.DB.Model(&model.Resume{}).
		Where("resume_id = ?", resume.ResumeID).
		Update("business_status", info.BusinessStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update status: %s", err.Error()),
		})
		return
	}

	resume.BusinessStatus = &info.BusinessStatus
	c.JSON(http.StatusOK, resume)
}

// Move reassigns the resume to another job description and resets it for
// re-scoring.
func (rc *Controller) Move(c *gin.Context) {
	resume, ok := rc.findResume(c)
	if !ok {
		return
	}

	jdID, ok := rc.queryJDID(c, true)
	if !ok {
		return
	}

	if *jdID == resume.JDID {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Resume already belongs to this job description"})
		return
	}

	var target model.JobDescription
	if err := rc.DB.Where("jd_id = ?", *jdID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Target job description not found"})
		} else {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Database error: %s", err.Error()),
			})
		}
		return
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		return processing.MoveResume(tx, &resume, target.JDID)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to move resume: %s", err.Error()),
		})
		return
	}

	var moved model.Resume
	if err := rc.DB.Where("resume_id = ?", resume.ResumeID).First(&moved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to reload resume: %s", err.Error()),
		})
		return
	}

	rc.Log.Infow("resume moved", "resume_id", moved.ResumeID, "from_jd", resume.JDID, "to_jd", target.JDID)
	c.JSON(http.StatusOK, moved)
}

// Analysis returns the resume's current analysis row.
func (rc *Controller) Analysis(c *gin.Context) {
	resume, ok := rc.findResume(c)
	if !ok {
		return
	}

	var analysis model.ResumeAnalysis
	err := rc.DB.Where("resume_id = ?", resume.ResumeID).
		Order("analysis_id DESC").
		First(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Resume has no analysis yet"})
		} else {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve analysis: %s", err.Error()),
			})
		}
		return
	}

	c.JSON(http.StatusOK, analysis)
}

type feedbackInfo struct {
	Label   string  `json:"label" binding:"required"`
	Comment *string `json:"comment"`
}

// PostFeedback appends one human feedback entry for the resume.
func (rc *Controller) PostFeedback(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	resume, ok := rc.findResume(c)
	if !ok {
		return
	}

	var info feedbackInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "label must be provided"})
		return
	}

	feedback := model.ResumeFeedback{
		ResumeID: resume.ResumeID,
		JDID:     resume.JDID,
		UserName: user.Username,
		Label:    info.Label,
		Comment:  info.Comment,
	}
	if err := rc.DB.Create(&feedback).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to record feedback: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// GetFeedback lists the resume's feedback entries, newest first.
func (rc *Controller) GetFeedback(c *gin.Context) {
	resume, ok := rc.findResume(c)
	if !ok {
		return
	}

	var feedback []model.ResumeFeedback
	err := rc.DB.Where("resume_id = ?", resume.ResumeID).
		Order("created_at DESC").
		Find(&feedback).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve feedback: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// ProcessOnce triggers one synchronous batch pass, optionally scoped to a
// single JD, and reports the number of resumes attempted. Per-item outcomes
// are visible through the status and analysis endpoints.
func (rc *Controller) ProcessOnce(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jdFilter, ok := rc.queryJDID(c, false)
	if !ok {
		return
	}

	attempted, err := rc.Runner.RunOnce(c.Request.Context(), user.Username, jdFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Batch pass failed: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"processed_count": attempted})
}

// findResume loads the resume from the id path parameter, answering 404
// itself when the record is missing.
func (rc *Controller) findResume(c *gin.Context) (model.Resume, bool) {
	var resume model.Resume
	if err := rc.DB.Where("resume_id = ?", c.Param("id")).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Resume not found"})
		} else {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Database error: %s", err.Error()),
			})
		}
		return resume, false
	}
	return resume, true
}

// queryJDID parses the jd_id query parameter. When required is false a
// missing parameter yields (nil, true).
func (rc *Controller) queryJDID(c *gin.Context, required bool) (*uint, bool) {
	raw := c.Query("jd_id")
	if raw == "" {
		if required {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "jd_id query parameter is required"})
			return nil, false
		}
		return nil, true
	}

	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "jd_id must be a positive integer"})
		return nil, false
	}

	id := uint(parsed)
	return &id, true
}
