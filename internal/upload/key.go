package upload

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const maxNameLen = 100

// ObjectKey builds "<folder>/<YYYY>/<id>_<name>".
func ObjectKey(folder string, now time.Time, id string, filename string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = "resumes"
	}
	return fmt.Sprintf("%s/%d/%s_%s", folder, now.UTC().Year(), id, SanitizeName(filename))
}

// SanitizeName keeps letters, digits, dot, dash and underscore from the base
// name. Everything else becomes "_".
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "resume"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	if len(out) > maxNameLen {
		ext := filepath.Ext(out)
		if len(ext) >= maxNameLen {
			ext = ""
		}
		out = out[:maxNameLen-len(ext)] + ext
	}
	return out
}
