package error

import "errors"

var (
	// ErrImageUploadFailed is returned when the image host rejects or fails an upload.
	ErrImageUploadFailed = errors.New("image upload failed")

	// ErrInvalidImage is returned when an uploaded file is not an accepted image.
	ErrInvalidImage = errors.New("invalid image file")
)

// UploadErrorCode defines error codes for upload errors.
type UploadErrorCode string

const (
	ErrCodeImageUploadFailed UploadErrorCode = "UPL-010001"
	ErrCodeInvalidImage      UploadErrorCode = "UPL-020001"
)

// UploadError represents an image upload error with code and message.
type UploadError struct {
	Code    UploadErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *UploadError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *UploadError) Unwrap() error {
	return e.Err
}

// NewUploadError creates a new UploadError with the given code and message.
func NewUploadError(code UploadErrorCode, message string, err error) *UploadError {
	return &UploadError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
