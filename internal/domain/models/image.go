package model

import "io"

// ImageUpload is a file received from a client before it is stored.
type ImageUpload struct {
	MimeType     string
	OriginalName string
	Content      io.Reader
}

// ImageInput carries either a fresh upload or the path of an already stored asset.
// Upload wins when both are set.
type ImageInput struct {
	Upload       *ImageUpload
	ExistingPath string
}

func (i ImageInput) IsEmpty() bool {
	return i.Upload == nil && i.ExistingPath == ""
}
