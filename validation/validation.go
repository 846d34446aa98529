package validation

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/nijaru/vidpost/config"
	"github.com/nijaru/vidpost/errors"
)

type Validator struct {
	allowed    map[string]bool
	extensions []string
	structs    *validator.Validate
}

func NewValidator(cfg config.UploadConfig) *Validator {
	v := &Validator{
		allowed:    make(map[string]bool, len(cfg.AllowedExtensions)),
		extensions: make([]string, 0, len(cfg.AllowedExtensions)),
		structs:    validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext == "" || v.allowed[ext] {
			continue
		}
		v.allowed[ext] = true
		v.extensions = append(v.extensions, ext)
	}

	v.structs.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	return v
}

// ValidateUpload checks a client-supplied filename against the allow-list.
func (v *Validator) ValidateUpload(filename string) error {
	const op = "Validator.ValidateUpload"

	if strings.TrimSpace(filename) == "" {
		return errors.InvalidInput(op, nil, "No file selected")
	}

	if _, ok := v.Extension(filename); !ok {
		return errors.InvalidInput(
			op,
			fmt.Errorf("extension not allowed: %q", filename),
			"Invalid file type. Please upload "+v.allowedList(),
		)
	}

	return nil
}

// Extension returns the lower-cased extension of filename and whether it is allowed.
func (v *Validator) Extension(filename string) (string, bool) {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return "", false
	}
	ext := strings.ToLower(filename[i+1:])
	return ext, v.allowed[ext]
}

// maxFilenameLength caps a sanitized name so "<run id>_<name>_audio.mp3"
// stays well inside the 255 byte limit most filesystems put on a segment.
const maxFilenameLength = 160

// SafeFilename sanitizes filename for use as a path segment, keeping its
// allowed extension even when sanitizing strips everything else or the
// stem has to be shortened.
func (v *Validator) SafeFilename(filename string) string {
	ext, _ := v.Extension(filename)
	safe := SanitizeFilename(filename)
	got, ok := v.Extension(safe)
	if !ok || got != ext {
		return "upload." + ext
	}

	suffix := safe[len(safe)-len(got)-1:]
	stem := strings.TrimSuffix(safe, suffix)
	if len(safe) > maxFilenameLength {
		stem = strings.TrimRight(stem[:maxFilenameLength-len(suffix)], "._-")
	}
	if stem == "" {
		return "upload." + ext
	}
	return stem + suffix
}

// Struct validates a request body using its `validate` tags.
func (v *Validator) Struct(s any) error {
	const op = "Validator.Struct"

	err := v.structs.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.InvalidInput(op, err, "Invalid request")
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errors.InvalidInput(op, err, strings.Join(messages, "; "))
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
	RequireJSON      bool
}

// ValidateRequest validates HTTP requests
func (v *Validator) ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "Validator.ValidateRequest"

	if opts.RequireJSON {
		if contentType := r.Header.Get("Content-Type"); !strings.Contains(contentType, "application/json") {
			return errors.InvalidInput(op, nil, "Content-Type must be application/json")
		}
	}

	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.TooLarge(op, nil, "Request body too large")
	}

	return nil
}

// allowedList renders the extensions as "MP4, MOV, AVI, or MKV".
func (v *Validator) allowedList() string {
	names := make([]string, len(v.extensions))
	for i, ext := range v.extensions {
		names[i] = strings.ToUpper(ext)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}

// SanitizeFilename strips directory components, folds to ASCII, joins
// whitespace runs with underscores and drops anything outside [A-Za-z0-9_.-].
// Leading and trailing dots and underscores are removed. The result may be empty.
func SanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	name = strings.Join(strings.Fields(norm.NFKD.String(name)), "_")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '.' || r == '-':
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "._")
}
