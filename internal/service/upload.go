package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

// UploadPolicy constrains what a multipart upload may contain before any
// bytes reach the filesystem.
type UploadPolicy struct {
	MaxBytes   int64
	Extensions []string
}

// JournalUploadExtensions lists what an issue submission may attach.
var JournalUploadExtensions = []string{"pdf"}

// AssetUploadExtensions lists what the shared file area accepts.
var AssetUploadExtensions = []string{
	"pdf", "png", "jpg", "jpeg", "gif", "doc", "docx", "txt", "zip", "csv", "ppt", "pptx",
}

// Validate rejects uploads that are empty, too large or of a type the policy
// does not allow.
func (p UploadPolicy) Validate(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "file name is required")
	}
	if size <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %d byte limit", p.MaxBytes))
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range p.Extensions {
		if ext == allowed {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %q is not allowed", ext))
}

// storedFilename prefixes a sanitized original name with a fresh UUID so
// uploads never collide and never escape the upload directory.
func storedFilename(original string) string {
	return uuid.NewString() + "_" + sanitizeFilename(original)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "arquivo"
	}
	return cleaned
}
