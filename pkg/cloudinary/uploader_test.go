package cloudinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForceDownloadURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "raw upload",
			in:   "https://res.cloudinary.com/demo/raw/upload/v1700000000/resumes/2025/abc_cv.pdf",
			want: "https://res.cloudinary.com/demo/raw/upload/fl_attachment/v1700000000/resumes/2025/abc_cv.pdf",
		},
		{
			name: "already flagged",
			in:   "https://res.cloudinary.com/demo/raw/upload/fl_attachment/v1/cv.pdf",
			want: "https://res.cloudinary.com/demo/raw/upload/fl_attachment/v1/cv.pdf",
		},
		{
			name: "other host",
			in:   "https://files.example.com/upload/cv.pdf",
			want: "https://files.example.com/upload/cv.pdf",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForceDownloadURL(tt.in))
		})
	}
}
