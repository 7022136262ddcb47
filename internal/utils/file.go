package utils

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// IsImageContent sniffs data rather than trusting the client's header.
func IsImageContent(data []byte) bool {
	ct := http.DetectContentType(data)
	for _, allowed := range AllowedImageTypes {
		if ct == allowed {
			return true
		}
	}
	return false
}

func ExtensionForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "application/pdf":
		return ".pdf"
	default:
		return ".jpg"
	}
}

// GenerateObjectKey builds a storage key like camiones/<id>/<uuid>.jpg.
func GenerateObjectKey(folder, ownerID, contentType string) string {
	return folder + "/" + ownerID + "/" + uuid.NewString() + ExtensionForContentType(contentType)
}
