package creation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var isbnPattern = regexp.MustCompile(`^\d{13}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	mustRegister(v, "isbn13digits", func(fl validator.FieldLevel) bool {
		return isbnPattern.MatchString(fl.Field().String())
	})
	// Browsers enforce maxlength in UTF-16 code units, so the limits here match.
	mustRegister(v, "utf16max", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf16Len(fl.Field().String()) <= limit
	})
	mustRegister(v, "genre", func(fl validator.FieldLevel) bool {
		return isGenre(entities.Genre(fl.Field().String()))
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// FieldError describes one rejected input.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "invalid fields: " + strings.Join(names, ", ")
}

// Has reports whether field is among the failures.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Message returns the failure text for field, or "".
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Validate checks a draft and optional cover before anything is sent.
func Validate(draft entities.Draft, upload *entities.CoverUpload) error {
	var fields []FieldError

	if err := validate.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate draft: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}

	if upload != nil && len(upload.Data) > 0 {
		if mt := mimetype.Detect(upload.Data); !strings.HasPrefix(mt.String(), "image/") {
			fields = append(fields, FieldError{
				Field:   "image",
				Message: fmt.Sprintf("Cover must be an image, got %s.", mt.String()),
			})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "title":
		return fmt.Sprintf("Title is required and must be at most %d characters.", entities.MaxTitleLength)
	case "author":
		return fmt.Sprintf("Author is required and must be at most %d characters.", entities.MaxAuthorLength)
	case "isbn":
		return fmt.Sprintf("ISBN must be exactly %d digits.", entities.ISBNLength)
	case "genre":
		return "Select a genre."
	case "rating":
		return fmt.Sprintf("Rating must be between %d and %d.", entities.MinRating, entities.MaxRating)
	case "publicationDate":
		return "Publication date must be in YYYY-MM-DD format."
	default:
		return fmt.Sprintf("%s failed %s validation.", fe.Field(), fe.Tag())
	}
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func isGenre(g entities.Genre) bool {
	for _, known := range entities.Genres {
		if g == known {
			return true
		}
	}
	return false
}

// SanitizeISBN keeps only the digits of raw input.
func SanitizeISBN(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseRating accepts a single digit in [1,5]. Anything else yields 0, which
// fails validation.
func ParseRating(raw string) int {
	raw = strings.TrimSpace(raw)
	if len(raw) != 1 {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < entities.MinRating || n > entities.MaxRating {
		return 0
	}
	return n
}
