// Package upload provides HTTP handlers for the resume ingestion queue:
// multi-file upload with content dedup, queue listing, and status resets.
// The OCR/parse pipeline itself runs outside this service.
package upload

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"TalentScope-backend/internal/controller/file"
	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	"TalentScope-backend/internal/search"
	"TalentScope-backend/internal/stats"
	"TalentScope-backend/internal/utilities"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	uniqueViolation = "23505"
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// UploadController handles resume upload endpoints
type UploadController struct {
	DB      *database.DBinstanceStruct
	Storage file.StorageClient
}

// NewUploadController creates a new instance of UploadController
func NewUploadController(db *database.DBinstanceStruct, storage file.StorageClient) *UploadController {
	return &UploadController{DB: db, Storage: storage}
}

// FileResult reports the outcome of one file in a batch upload.
type FileResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"` // uploaded | duplicate | error
	ID       string `json:"id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Upload accepts a multipart batch of resume files. Each file is hashed,
// deduplicated against previous uploads by content, stored, and queued as
// PENDING. A failure on one file never aborts the rest of the batch.
// @Summary Upload one or more resume files
// @Tags Upload
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param files formData file true "Resume files"
// @Success 200 {array} upload.FileResult "Per-file outcomes"
// @Failure 400 {object} utilities.ErrorResponse "No files in request"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 413 {object} utilities.ErrorResponse "File size limit exceeded"
// @Router /uploads [post]
func (uc *UploadController) Upload(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	form, err := c.MultipartForm()
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse multipart form: %s", err.Error()),
		})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "No files in request"})
		return
	}

	results := make([]FileResult, 0, len(files))
	for _, header := range files {
		results = append(results, uc.ingestOne(&user, header))
	}

	c.JSON(http.StatusOK, results)
}

// ingestOne pushes a single file through hash, dedup, store, and enqueue.
// Every failure is folded into the per-file result.
func (uc *UploadController) ingestOne(user *model.User, header *multipart.FileHeader) FileResult {
	result := FileResult{Filename: header.Filename, Status: "error"}

	extension := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[extension] {
		result.Error = fmt.Sprintf("Unsupported file extension: %s", extension)
		return result
	}

	f, err := header.Open()
	if err != nil {
		result.Error = "Cannot open file"
		return result
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close upload file: %v", err)
		}
	}()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		result.Error = "Cannot read file"
		return result
	}

	sum := sha256.Sum256(fileBytes)
	hash := hex.EncodeToString(sum[:])

	// Cheap pre-check. The unique index on file_hash still backstops the
	// race between two concurrent uploads of the same content.
	var existing int64
	if err := uc.DB.Model(&model.ResumeUpload{}).Where("file_hash = ?", hash).Count(&existing).Error; err != nil {
		result.Error = fmt.Sprintf("Failed to check for duplicates: %s", err.Error())
		return result
	}
	if existing > 0 {
		result.Status = "duplicate"
		return result
	}

	objectName := fmt.Sprintf("%s/%d_%s%s", user.ID, time.Now().UnixMilli(), hash[:16], extension)
	if uc.Storage != nil {
		if err := uc.Storage.UploadFile(objectName, bytes.NewReader(fileBytes)); err != nil {
			result.Error = fmt.Sprintf("Failed to store file: %s", err.Error())
			return result
		}
	}

	row := model.ResumeUpload{
		UserID:        &user.ID,
		UploaderName:  &user.DisplayName,
		UploaderEmail: user.Email,
		Filename:      header.Filename,
		FileHash:      hash,
		FileSize:      int64(len(fileBytes)),
		StoragePath:   objectName,
		Status:        model.UploadStatusPending,
	}
	if err := uc.DB.Create(&row).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Lost the race to an identical concurrent upload.
			result.Status = "duplicate"
			return result
		}
		result.Error = fmt.Sprintf("Failed to enqueue upload: %s", err.Error())
		return result
	}

	result.Status = "uploaded"
	result.ID = row.ID.String()
	return result
}

// ListResponse is a page of upload rows plus pagination info.
type ListResponse struct {
	Uploads    []model.ResumeUpload `json:"uploads"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
}

// List returns upload rows scoped by owner, status bucket, and time window.
// @Summary List resume uploads
// @Tags Upload
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param scope query string false "mine (default) or all (admin only, others stay scoped to mine)"
// @Param bucket query string false "success, failed, or processing"
// @Param window query string false "today, week, or all (default)"
// @Param page query int false "1-indexed page"
// @Param pageSize query int false "rows per page"
// @Success 200 {object} upload.ListResponse "Page of uploads"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /uploads [get]
func (uc *UploadController) List(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := uc.DB.Model(&model.ResumeUpload{})

	// scope=all is an admin view; everyone else only ever sees their own rows
	if c.DefaultQuery("scope", "mine") != "all" || !utilities.HasAdminAccess(user) {
		query = query.Where("user_id = ?", user.ID)
	}

	switch c.Query("bucket") {
	case "success":
		query = query.Where("status = ?", model.UploadStatusSuccess)
	case "failed":
		query = query.Where("status = ?", model.UploadStatusFailed)
	case "processing":
		query = query.Where("status IN ?", []string{model.UploadStatusPending, model.UploadStatusOCRDone})
	}

	now := time.Now()
	switch c.Query("window") {
	case "today":
		query = query.Where("created_at >= ?", stats.DayStart(now))
	case "week":
		query = query.Where("created_at >= ?", stats.WeekStart(now))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	page, pageSize := pageParams(c)
	var rows []model.ResumeUpload
	if err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Uploads:    rows,
		Total:      total,
		Page:       page,
		TotalPages: search.TotalPages(int(total), pageSize),
	})
}

// Retry requeues an upload from the start of the pipeline: status back to
// PENDING with the previous error and OCR text cleared.
// @Summary Retry a failed upload from the OCR stage
// @Tags Upload
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Upload ID"
// @Success 200 {object} model.ResumeUpload "Requeued row"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given upload id not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /uploads/{id}/retry [post]
func (uc *UploadController) Retry(c *gin.Context) {
	uc.reset(c, model.UploadStatusPending, true)
}

// RerunParse requeues only the parse stage: status back to OCR_DONE with the
// previous error cleared but the OCR text kept.
// @Summary Re-run the parse stage of an upload
// @Tags Upload
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Upload ID"
// @Success 200 {object} model.ResumeUpload "Requeued row"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given upload id not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /uploads/{id}/rerun-parse [post]
func (uc *UploadController) RerunParse(c *gin.Context) {
	uc.reset(c, model.UploadStatusOCRDone, false)
}

func (uc *UploadController) reset(c *gin.Context, status string, clearOCR bool) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var row model.ResumeUpload
	if err := uc.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Upload not found"})
		return
	}

	updates := map[string]any{
		"status":       status,
		"error_reason": nil,
	}
	if clearOCR {
		updates["ocr_content"] = nil
	}
	if err := uc.DB.Model(&row).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	row.Status = status
	row.ErrorReason = nil
	if clearOCR {
		row.OCRContent = nil
	}
	c.JSON(http.StatusOK, row)
}

// Wait blocks until the upload leaves the queue or the timeout elapses,
// then returns the current row. Clients use it to follow a fresh upload
// without hammering the list endpoint.
// @Summary Wait for an upload to finish processing
// @Tags Upload
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Upload ID"
// @Param timeout query int false "Seconds to wait, default 30, max 120"
// @Success 200 {object} model.ResumeUpload "Row in its current state"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given upload id not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /uploads/{id}/wait [get]
func (uc *UploadController) Wait(c *gin.Context) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")
	var row model.ResumeUpload
	if err := uc.DB.First(&row, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Upload not found"})
		return
	}

	timeoutSec, err := strconv.Atoi(c.DefaultQuery("timeout", "30"))
	if err != nil || timeoutSec < 1 {
		timeoutSec = 30
	}
	if timeoutSec > 120 {
		timeoutSec = 120
	}

	done, pollErr := utilities.PollUntil(c.Request.Context(), time.Duration(timeoutSec)*time.Second,
		func(ctx context.Context) (bool, error) {
			if err := uc.DB.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
				return false, err
			}
			return !row.InQueue(), nil
		})
	if pollErr != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: pollErr.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"done": done, "upload": row})
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
