package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livedocs/internal/pkg/errs"
)

func TestValidateFileSize(t *testing.T) {
	cases := []struct {
		name     string
		size     int64
		wantCode int
	}{
		{"zero size", 0, errs.ErrInvalidParams},
		{"negative size", -1, errs.ErrInvalidParams},
		{"one byte", 1, 0},
		{"exactly at limit", MaxAttachmentSize, 0},
		{"over limit", MaxAttachmentSize + 1, errs.ErrFileSizeTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateFileSize(tc.size)
			if tc.wantCode == 0 {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, tc.wantCode, err.Code)
			}
		})
	}
}

func TestValidateFileType(t *testing.T) {
	cases := []struct {
		name     string
		fileName string
		mimeType string
		valid    bool
	}{
		{"jpeg", "photo.jpg", "image/jpeg", true},
		{"jpeg alternate extension", "photo.jpeg", "image/jpeg", true},
		{"png uppercase mime", "diagram.png", "IMAGE/PNG", true},
		{"webp", "sticker.webp", "image/webp", true},
		{"gif", "anim.gif", "image/gif", true},
		{"disallowed mime", "doc.pdf", "application/pdf", false},
		{"mime extension mismatch", "photo.png", "image/jpeg", false},
		{"missing extension", "photo", "image/png", false},
		{"unknown extension", "photo.bmp", "image/png", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateFileType(tc.fileName, tc.mimeType)
			if tc.valid {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, errs.ErrFileTypeInvalid, err.Code)
			}
		})
	}
}
