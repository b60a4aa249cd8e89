// Package question provides typed views over an applicant document for
// individual questions: each view knows the scalar keys it reads and
// writes under the question's path and how to validate raw input.
package question

import (
	"fmt"
	"time"

	"github.com/openbenefits/formd/internal/applicant"
	"github.com/openbenefits/formd/internal/docpath"
	"github.com/openbenefits/formd/internal/scalar"
)

// DateQuestion views a single date answer stored under path.
type DateQuestion struct {
	doc  *applicant.Document
	path docpath.Path
}

// NewDateQuestion creates a date question view. The path is the question's
// contextualized answer path, without the scalar key.
func NewDateQuestion(doc *applicant.Document, path docpath.Path) DateQuestion {
	return DateQuestion{doc: doc, path: path}
}

// DatePath is the full path of the date scalar.
func (q DateQuestion) DatePath() docpath.Path {
	return q.path.Join(scalar.Date)
}

// IsAnswered reports whether the applicant has stored a date.
func (q DateQuestion) IsAnswered() bool {
	return q.doc.HasPath(q.DatePath())
}

// Value returns the answered date.
func (q DateQuestion) Value() (time.Time, bool) {
	return q.doc.ReadDate(q.DatePath())
}

// Put stores a raw yyyy-MM-dd answer. Empty input clears the answer.
func (q DateQuestion) Put(raw string) error {
	return q.doc.PutDate(q.DatePath(), raw)
}

// IDQuestion views an identifier answer such as a case or account number.
// Zero-valued length bounds are not enforced.
type IDQuestion struct {
	doc       *applicant.Document
	path      docpath.Path
	minLength int
	maxLength int
}

// NewIDQuestion creates an ID question view with optional length bounds.
func NewIDQuestion(doc *applicant.Document, path docpath.Path, minLength, maxLength int) IDQuestion {
	return IDQuestion{doc: doc, path: path, minLength: minLength, maxLength: maxLength}
}

// IDPath is the full path of the id scalar.
func (q IDQuestion) IDPath() docpath.Path {
	return q.path.Join(scalar.ID)
}

// IsAnswered reports whether the applicant has stored an identifier.
func (q IDQuestion) IsAnswered() bool {
	return q.doc.HasPath(q.IDPath())
}

// Value returns the answered identifier.
func (q IDQuestion) Value() (string, bool) {
	return q.doc.ReadString(q.IDPath())
}

// Put stores a raw identifier answer. Empty input clears the answer.
// Validation is separate; invalid answers are stored so the applicant can
// come back to them.
func (q IDQuestion) Put(raw string) error {
	return q.doc.PutString(q.IDPath(), raw)
}

// Validate returns the error messages for the current answer. An
// unanswered question is valid.
func (q IDQuestion) Validate() []string {
	value, ok := q.Value()
	if !ok {
		return nil
	}

	var errs []string
	for _, r := range value {
		if r < '0' || r > '9' {
			errs = append(errs, "must contain only numbers")
			break
		}
	}
	if q.minLength > 0 && len(value) < q.minLength {
		errs = append(errs, fmt.Sprintf("must contain at least %d characters", q.minLength))
	}
	if q.maxLength > 0 && len(value) > q.maxLength {
		errs = append(errs, fmt.Sprintf("must contain at most %d characters", q.maxLength))
	}
	return errs
}
