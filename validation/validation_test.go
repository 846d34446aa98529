package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nijaru/vidpost/config"
	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/models"
)

func newTestValidator() *Validator {
	return NewValidator(config.UploadConfig{
		AllowedExtensions: []string{"mp4", "mov", "avi", "mkv"},
	})
}

func TestValidateUpload(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name     string
		filename string
		wantErr  string
	}{
		{"Valid mp4", "clip.mp4", ""},
		{"Upper case extension", "CLIP.MKV", ""},
		{"Multiple dots", "my.holiday.video.mov", ""},
		{"Dot only name", ".avi", ""},
		{"Empty filename", "", "No file selected"},
		{"Whitespace filename", "   ", "No file selected"},
		{"Text file", "clip.txt", "Invalid file type. Please upload MP4, MOV, AVI, or MKV"},
		{"No extension", "mp4", "Invalid file type. Please upload MP4, MOV, AVI, or MKV"},
		{"Extension in the middle", "clip.mp4.exe", "Invalid file type. Please upload MP4, MOV, AVI, or MKV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateUpload(tt.filename)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateUpload(%q) unexpected error: %v", tt.filename, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateUpload(%q) expected error", tt.filename)
			}
			if errors.KindOf(err) != errors.KindValidation {
				t.Errorf("expected validation error, got %v", errors.KindOf(err))
			}
			appErr := err.(*errors.AppError)
			if appErr.Message != tt.wantErr {
				t.Errorf("expected message %q, got %q", tt.wantErr, appErr.Message)
			}
		})
	}
}

func TestAllowedListFormatting(t *testing.T) {
	tests := []struct {
		exts []string
		want string
	}{
		{[]string{"mp4"}, "MP4"},
		{[]string{"mp4", "mov"}, "MP4 or MOV"},
		{[]string{"mp4", ".MOV", "mov", "mkv"}, "MP4, MOV, or MKV"},
	}
	for _, tt := range tests {
		v := NewValidator(config.UploadConfig{AllowedExtensions: tt.exts})
		if got := v.allowedList(); got != tt.want {
			t.Errorf("allowedList(%v) = %q, want %q", tt.exts, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"clip.mp4", "clip.mp4"},
		{"../../etc/passwd.mp4", "passwd.mp4"},
		{`C:\Users\me\clip.mov`, "clip.mov"},
		{"my holiday  video.mkv", "my_holiday_video.mkv"},
		{"café.mp4", "cafe.mp4"},
		{"clip;rm -rf.mp4", "cliprm_-rf.mp4"},
		{"..hidden.mp4", "hidden.mp4"},
		{"视频.mp4", "mp4"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeFilenameKeepsExtension(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		in   string
		want string
	}{
		{"clip.mp4", "clip.mp4"},
		{"视频.mp4", "upload.mp4"},
		{".avi", "upload.avi"},
		{"../a b.MOV", "a_b.MOV"},
		{strings.Repeat("a", 260) + ".mp4", strings.Repeat("a", 156) + ".mp4"},
		{strings.Repeat("b", 155) + "_-.x" + strings.Repeat("c", 40) + ".mkv", strings.Repeat("b", 155) + ".mkv"},
	}

	for _, tt := range tests {
		got := validator.SafeFilename(tt.in)
		if got != tt.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if len(got) > maxFilenameLength {
			t.Errorf("SafeFilename(%q) is %d bytes, want at most %d", tt.in, len(got), maxFilenameLength)
		}
		if strings.ContainsAny(got, `/\`) {
			t.Errorf("SafeFilename(%q) contains a path separator", tt.in)
		}
	}
}

func TestStructValidation(t *testing.T) {
	validator := newTestValidator()

	err := validator.Struct(models.FormatRequest{Transcript: "hi"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err = validator.Struct(models.FormatRequest{})
	if err == nil {
		t.Fatal("expected error for empty transcript")
	}
	if msg := err.(*errors.AppError).Message; msg != "transcript is required" {
		t.Errorf("unexpected message %q", msg)
	}

	// Repeats are collapsed by platform parsing, so the count is not capped here.
	err = validator.Struct(models.FormatRequest{Transcript: "hi", Platforms: []string{"linkedin", "linkedin", "twitter", "blog"}})
	if err != nil {
		t.Errorf("unexpected error for repeated platforms: %v", err)
	}

	err = validator.Struct(models.FormatRequest{Transcript: "hi", Platforms: []string{"blog", ""}})
	if errors.KindOf(err) != errors.KindValidation {
		t.Errorf("expected validation error for empty platform, got %v", err)
	}
}

func TestValidateRequest(t *testing.T) {
	validator := newTestValidator()

	req := httptest.NewRequest("POST", "/format", strings.NewReader("{}"))
	if err := validator.ValidateRequest(req, RequestValidationOpts{RequireJSON: true}); err == nil {
		t.Error("expected error without JSON content type")
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if err := validator.ValidateRequest(req, RequestValidationOpts{RequireJSON: true}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	req.ContentLength = 2048
	err := validator.ValidateRequest(req, RequestValidationOpts{MaxContentLength: 1024})
	if errors.KindOf(err) != errors.KindTooLarge {
		t.Errorf("expected too large error, got %v", err)
	}
}
