package upload

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/SundayYogurt/herohq/internal/common"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var allowedTypes = map[string]bool{
	MimePDF:  true,
	MimeDOC:  true,
	MimeDOCX: true,
}

var typeByExt = map[string]string{
	".pdf":  MimePDF,
	".doc":  MimeDOC,
	".docx": MimeDOCX,
}

// Validate checks the size ceiling and the resume type allow-list. It never
// touches the network.
func Validate(f File, maxBytes int64) error {
	if f.Body == nil {
		return common.ErrResumeRequired
	}
	if maxBytes > 0 && f.Size > maxBytes {
		return common.ErrFileTooLarge
	}
	if DetectType(f) == "" {
		return common.ErrUnsupportedType
	}
	return nil
}

// DetectType returns the normalised MIME type of f, or "" when it is not an
// accepted resume format. Generic or missing content types fall back to the
// file extension.
func DetectType(f File) string {
	declared := strings.TrimSpace(f.ContentType)
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			declared = strings.ToLower(mt)
		}
	}

	if allowedTypes[declared] {
		return declared
	}
	if declared != "" && declared != "application/octet-stream" {
		return ""
	}
	return typeByExt[strings.ToLower(filepath.Ext(f.Name))]
}
