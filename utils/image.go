package utils

import (
	"errors"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest accepted book cover.
const MaxImageSize = 2 * 1024 * 1024

var (
	ErrImageTooLarge  = errors.New("image larger than 2MB")
	ErrImageBadFormat = errors.New("image is not jpeg or png")
	allowedImageMIMEs = []string{"image/jpeg", "image/png"}
)

// DetectImage sniffs data and returns its content type and file extension.
// The declared content type of an upload is not trusted.
func DetectImage(data []byte) (string, string, error) {
	if len(data) > MaxImageSize {
		return "", "", ErrImageTooLarge
	}
	mtype := mimetype.Detect(data)
	for _, allowed := range allowedImageMIMEs {
		if mtype.Is(allowed) {
			return allowed, mtype.Extension(), nil
		}
	}
	return "", "", ErrImageBadFormat
}
