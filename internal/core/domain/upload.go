package domain

import "fmt"

type UploadPhase string

const (
	PhaseEmpty      UploadPhase = "empty"
	PhaseSelected   UploadPhase = "selected"
	PhaseSubmitting UploadPhase = "submitting"
	PhaseSucceeded  UploadPhase = "succeeded"
	PhaseFailed     UploadPhase = "failed"
)

const MaxUploadBytes = 10 * 1024 * 1024

var acceptedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// ImageUpload is one file chosen for submission. Size is kept alongside
// the content so validation can reject oversized selections before any
// bytes are touched.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     []byte
}

// Validate rejects files the inference endpoint would not accept: anything
// over 10 MiB or outside the accepted image types.
func (u ImageUpload) Validate() error {
	if u.Size > MaxUploadBytes {
		return WrapError(ErrValidation, "select image",
			fmt.Errorf("file %q is %d bytes, limit is %d", u.Filename, u.Size, MaxUploadBytes))
	}
	if _, ok := acceptedImageTypes[u.ContentType]; !ok {
		return WrapError(ErrValidation, "select image",
			fmt.Errorf("unsupported file type %q, expected a JPEG or PNG image", u.ContentType))
	}
	return nil
}
