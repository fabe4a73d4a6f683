package analysis

import "strings"

// Intake validation helpers.

// DefaultMIMEType is assumed for the path variant when the caller names none.
const DefaultMIMEType = "image/png"

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

// AllowedImageType reports whether the declared MIME type is accepted by the
// multipart intake.
func AllowedImageType(mimeType string) bool {
	return allowedImageTypes[strings.ToLower(mimeType)]
}

// SanitizeFilename strips path separators and control characters from an
// uploaded file's original name so it is safe to use inside the uploads
// directory. An empty result falls back to "upload".
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 32 || r == 127 || r == '/' || r == '\\' || r == 0 {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.TrimSpace(b.String())
	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		return "upload"
	}
	return cleaned
}
