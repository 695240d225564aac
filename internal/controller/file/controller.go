// Package file provides HTTP handlers for raw resume file access.
package file

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	"TalentScope-backend/internal/utilities"
)

// PreviewURLExpiry bounds how long a signed preview link stays valid.
const PreviewURLExpiry = 15 * time.Minute

// FileController handles file related endpoints
type FileController struct {
	DB      *database.DBinstanceStruct
	Storage StorageClient
}

// NewFileController creates a new instance of FileController
func NewFileController(db *database.DBinstanceStruct, storage StorageClient) *FileController {
	return &FileController{
		DB:      db,
		Storage: storage,
	}
}

// PreviewURL returns a short-lived signed URL for the raw file behind an upload.
// @Summary Get signed preview URL for an uploaded resume
// @Tags File
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Upload ID"
// @Success 200 {object} map[string]string "Signed URL"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given upload id not found"
// @Failure 500 {object} utilities.ErrorResponse "Storage error"
// @Router /file/preview/{id} [get]
func (fc *FileController) PreviewURL(c *gin.Context) {
	upload, ok := fc.lookupUpload(c)
	if !ok {
		return
	}

	if fc.Storage == nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Cloud storage is disabled while the requested file is stored remotely",
		})
		return
	}

	url, err := fc.Storage.SignedURL(upload.StoragePath, PreviewURLExpiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to sign preview URL: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Download streams the raw file behind an upload as an attachment.
// @Summary Retrieve dowloadable attachment
// @Tags File
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Upload ID"
// @Success 200 {string} binary "Successfully retrieve file"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given upload id not found"
// @Failure 500 {object} utilities.ErrorResponse "Fail to send file content"
// @Router /file/{id} [get]
func (fc *FileController) Download(c *gin.Context) {
	upload, ok := fc.lookupUpload(c)
	if !ok {
		return
	}

	fc.writeFileResponse(c, upload)
}

func (fc *FileController) lookupUpload(c *gin.Context) (*model.ResumeUpload, bool) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return nil, false
	}

	var upload model.ResumeUpload
	if err := fc.DB.First(&upload, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Upload not found"})
		return nil, false
	}
	return &upload, true
}

func (fc *FileController) writeFileResponse(c *gin.Context, upload *model.ResumeUpload) {
	filename := upload.Filename
	if filename == "" {
		filename = upload.ID.String() + filepath.Ext(upload.StoragePath)
	}
	c.Writer.Header().Set("Content-Disposition", "attachment; filename="+filename)
	c.Writer.Header().Set("Content-Type", "application/octet-stream")

	if fc.Storage == nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Cloud storage is disabled while the requested file is stored remotely",
		})
		return
	}

	reader, size, err := fc.Storage.DownloadFile(upload.StoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to download file from storage: %s", err.Error()),
		})
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("failed to close storage reader: %v", err)
		}
	}()

	if size > 0 {
		c.Writer.Header().Set("Content-Length", fmt.Sprint(size))
	}
	if _, err := io.Copy(c.Writer, reader); err != nil {
		fc.handleWriterError(c)
	}
}

func (fc *FileController) handleWriterError(c *gin.Context) {
	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to send file content",
		})
	} else {
		c.Abort()
	}
}
