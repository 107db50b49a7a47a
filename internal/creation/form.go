// Package creation validates and submits new books.
package creation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Messages shown to the user after a submit attempt.
const (
	MessageInvalid = "Please fill all fields correctly."
	MessageSuccess = "Book Added Successfully"
	MessageFailure = "Failed to add book. Please try again."
)

// ErrSubmitInFlight is returned when a submit starts while another is outstanding.
var ErrSubmitInFlight = errors.New("a submission is already in progress")

// SubmitError wraps a failed backend request. The form keeps its contents.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit book: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Creator sends a validated draft to the backend.
type Creator interface {
	CreateBook(ctx context.Context, draft entities.Draft, upload *entities.CoverUpload) (*entities.Book, error)
}

// Form is the state of one creation form.
type Form struct {
	mu       sync.Mutex
	draft    entities.Draft
	upload   *entities.CoverUpload
	inFlight atomic.Bool
}

func NewForm() *Form {
	return &Form{draft: entities.EmptyDraft()}
}

func (f *Form) set(draft entities.Draft, upload *entities.CoverUpload) {
	draft.ISBN = SanitizeISBN(draft.ISBN)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = draft
	f.upload = upload
}

func (f *Form) Draft() entities.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Form) Upload() *entities.CoverUpload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upload
}

// Reset clears the draft and any selected cover.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = entities.EmptyDraft()
	f.upload = nil
}

// InFlight reports whether a submit is outstanding.
func (f *Form) InFlight() bool {
	return f.inFlight.Load()
}

// Submit stores draft and upload in the form, validates them and, if valid,
// sends them as one multipart request. While a submit is outstanding another
// one returns ErrSubmitInFlight and leaves the form untouched.
// Validation failures return *ValidationError without any request being made.
// Backend failures return *SubmitError and leave the form populated. On success
// the form is reset.
func (f *Form) Submit(ctx context.Context, creator Creator, draft entities.Draft, upload *entities.CoverUpload) (*entities.Book, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer f.inFlight.Store(false)

	f.set(draft, upload)
	draft, upload = f.Draft(), f.Upload()
	if err := Validate(draft, upload); err != nil {
		return nil, err
	}

	created, err := creator.CreateBook(ctx, draft, upload)
	if err != nil {
		return nil, &SubmitError{Err: err}
	}

	f.Reset()
	return created, nil
}

// UserMessage maps a Submit outcome to the text shown to the user.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return MessageSuccess
	case errors.As(err, &verr):
		return MessageInvalid
	default:
		return MessageFailure
	}
}
