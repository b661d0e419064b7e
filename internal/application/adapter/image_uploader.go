package adapter

import "context"

// UploadedImage describes an image stored by the image host.
type UploadedImage struct {
	URL      string
	PublicID string
}

// ImageUploader hands local files to the external image host.
// Implementations remove the local file once the upload attempt finishes.
type ImageUploader interface {
	Upload(ctx context.Context, localPath string) (*UploadedImage, error)
	Delete(ctx context.Context, publicID string) error
}
