package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// UploadStatusPending means the row is queued for the OCR stage
	UploadStatusPending = "PENDING"
	// UploadStatusOCRDone means OCR finished and the row waits for parsing
	UploadStatusOCRDone = "OCR_DONE"
	// UploadStatusSuccess means a candidate was created from this upload
	UploadStatusSuccess = "SUCCESS"
	// UploadStatusFailed means the pipeline gave up on this upload
	UploadStatusFailed = "FAILED"
)

// ResumeUpload is gorm model for one row of the processing queue. The
// external pipeline owns the PENDING -> OCR_DONE -> SUCCESS|FAILED
// transitions; this service only creates rows and resets their status.
type ResumeUpload struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	UploaderName  *string    `gorm:"type:text" json:"uploader_name"`
	UploaderEmail *string    `gorm:"type:text" json:"uploader_email"`
	Filename      string     `gorm:"type:text" json:"filename"`
	FileHash      string     `gorm:"type:text;uniqueIndex;not null" json:"file_hash"`
	FileSize      int64      `gorm:"type:bigint" json:"file_size"`
	StoragePath   string     `gorm:"type:text" json:"oss_raw_path"`
	Status        string     `gorm:"type:text;default:'PENDING';index" json:"status"`
	ErrorReason   *string    `gorm:"type:text" json:"error_reason"`
	OCRContent    *string    `gorm:"type:text" json:"-"`
	CandidateID   *uuid.UUID `gorm:"type:uuid" json:"candidate_id"`
	CreatedAt     time.Time  `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->;index" json:"created_at"`
}

// Bucket maps the raw status to the three buckets the list views use:
// "success", "failed", and "processing" for everything in between.
func (u *ResumeUpload) Bucket() string {
	switch u.Status {
	case UploadStatusSuccess:
		return "success"
	case UploadStatusFailed:
		return "failed"
	default:
		return "processing"
	}
}

// InQueue reports whether the row still waits for the external pipeline.
func (u *ResumeUpload) InQueue() bool {
	return u.Status == UploadStatusPending || u.Status == UploadStatusOCRDone
}
