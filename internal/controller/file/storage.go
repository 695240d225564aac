package file

import (
	"io"
	"time"
)

// StorageClient abstracts the object store holding raw resume files.
type StorageClient interface {
	UploadFile(objectName string, fileData io.Reader) error
	DownloadFile(objectName string) (io.ReadCloser, int64, error)
	SignedURL(objectName string, expiry time.Duration) (string, error)
	Remove(objectName string) error
	ListObjects(prefix string) ([]string, error)
}
