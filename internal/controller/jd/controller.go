// Package jd provides HTTP handlers for job description management and the
// model assisted JD review.
package jd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"TalentSift-backend/internal/config"
	"TalentSift-backend/internal/database"
	"TalentSift-backend/internal/extract"
	"TalentSift-backend/internal/llm"
	"TalentSift-backend/internal/model"
	"TalentSift-backend/internal/utilities"
)

var allowedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".docx": true,
}

// Controller handles job description related endpoints.
type Controller struct {
	DB      *database.DBinstanceStruct
	Cfg     *config.Config
	Invoker llm.Invoker
	Log     *zap.SugaredLogger
}

// NewController creates a new instance of Controller.
func NewController(db *database.DBinstanceStruct, cfg *config.Config, inv llm.Invoker, log *zap.SugaredLogger) *Controller {
	return &Controller{
		DB:      db,
		Cfg:     cfg,
		Invoker: inv,
		Log:     log,
	}
}

// Upload stores one job description file and creates its record. Counters
// start at zero; resumes attach later through the resume upload endpoint.
func (jc *Controller) Upload(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	rawFile, err := c.FormFile("jd")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
		})
		return
	}

	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !allowedExtensions[extension] {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: %s", extension),
		})
		return
	}

	if err := os.MkdirAll(jc.Cfg.UploadDirJD, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to prepare upload directory: %s", err.Error()),
		})
		return
	}

	savedPath := filepath.Join(jc.Cfg.UploadDirJD, uuid.NewString()+extension)
	if err := c.SaveUploadedFile(rawFile, savedPath); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store file: %s", err.Error()),
		})
		return
	}

	jd := model.JobDescription{
		FileName:          rawFile.Filename,
		FileSavedLocation: savedPath,
		Status:            model.JDStatusActive,
		UploadedBy:        &user.Username,
		IsActive:          true,
	}
	if err := jc.DB.Create(&jd).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create job description: %s", err.Error()),
		})
		return
	}

	jc.Log.Infow("job description uploaded", "jd_id", jd.JDID, "file_name", jd.FileName, "uploaded_by", user.Username)
	c.JSON(http.StatusCreated, jd)
}

// Builder reviews raw job description text sent in the request body. Nothing
// is stored; the model's structured review is returned as-is so recruiters
// can iterate on a draft before uploading it.
func (jc *Controller) Builder(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || strings.TrimSpace(string(body)) == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Job description text must be provided in the request body",
		})
		return
	}

	raw, err := jc.Invoker.Invoke(c.Request.Context(), llm.JDBuilderSystemPrompt, string(body))
	if err != nil {
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: fmt.Sprintf("Model invocation failed: %s", err.Error()),
		})
		return
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		jc.Log.Errorw("JD builder reply is not valid JSON", "error", err)
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: "Model returned invalid JSON. Please try again or contact support.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": parsed})
}

// Get returns one job description with its counters.
func (jc *Controller) Get(c *gin.Context) {
	jd, ok := jc.findJD(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, jd)
}

// Download sends the stored JD file as an attachment.
func (jc *Controller) Download(c *gin.Context) {
	jd, ok := jc.findJD(c)
	if !ok {
		return
	}

	if _, err := os.Stat(jd.FileSavedLocation); err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job description file not found on disk"})
		return
	}

	c.FileAttachment(jd.FileSavedLocation, jd.FileName)
}

// Analyze sends the JD text to the model and stores the extracted title and
// summary, stamping the review audit fields.
func (jc *Controller) Analyze(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jd, ok := jc.findJD(c)
	if !ok {
		return
	}

	jdText, err := extract.ReadFileToText(jd.FileSavedLocation)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to read job description file: %s", err.Error()),
		})
		return
	}

	raw, err := jc.Invoker.Invoke(c.Request.Context(), llm.JDAnalyzeSystemPrompt, jdText)
	if err != nil {
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: fmt.Sprintf("Model invocation failed: %s", err.Error()),
		})
		return
	}

	// Best effort extraction, the raw reply is not stored for JDs.
	var parsed struct {
		Title   *string `json:"title"`
		Summary *string `json:"summary"`
	}
	_ = json.Unmarshal([]byte(raw), &parsed)

	now := time.Now()
	updates := map[string]interface{}{
		"last_reviewed_at": now,
		"last_reviewed_by": user.Username,
	}
	if parsed.Title != nil && strings.TrimSpace(*parsed.Title) != "" {
		updates["title"] = strings.TrimSpace(*parsed.Title)
	}
	if parsed.Summary != nil && strings.TrimSpace(*parsed.Summary) != "" {
		updates["parsed_summary"] = strings.TrimSpace(*parsed.Summary)
	}

	if err := jc.DB.Model(&model.JobDescription{}).
		Where("jd_id = ?", jd.JDID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job description: %s", err.Error()),
		})
		return
	}

	if err := jc.DB.Where("jd_id = ?", jd.JDID).First(&jd).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to reload job description: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, jd)
}

// Analysis lists every analysis row under the JD, best matches first.
func (jc *Controller) Analysis(c *gin.Context) {
	jd, ok := jc.findJD(c)
	if !ok {
		return
	}

	var analyses []model.ResumeAnalysis
	err := jc.DB.Where("jd_id = ?", jd.JDID).
		Order("match_score DESC NULLS LAST, resume_id ASC").
		Find(&analyses).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve analyses: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, analyses)
}

// Feedback lists every feedback entry recorded under the JD.
func (jc *Controller) Feedback(c *gin.Context) {
	jd, ok := jc.findJD(c)
	if !ok {
		return
	}

	var feedback []model.ResumeFeedback
	err := jc.DB.Where("jd_id = ?", jd.JDID).
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

// findJD loads the JD from the jd_id path parameter, answering 404 itself
// when the record is missing.
func (jc *Controller) findJD(c *gin.Context) (model.JobDescription, bool) {
	var jd model.JobDescription
	if err := jc.DB.Where("jd_id = ?", c.Param("jd_id")).First(&jd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job description not found"})
		} else {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Database error: %s", err.Error()),
			})
		}
		return jd, false
	}
	return jd, true
}
