package applicant

import (
	"fmt"
	"strings"

	"github.com/openbenefits/formd/internal/docpath"
)

// Canonical paths consumed by profile-population logic such as identity
// provider login flows. The engine guarantees only the generic read/write
// contract for them; their business meaning lives with the callers.
var (
	FirstNamePath  = docpath.MustParse("applicant.name.first_name")
	MiddleNamePath = docpath.MustParse("applicant.name.middle_name")
	LastNamePath   = docpath.MustParse("applicant.name.last_name")
)

// AnonymousApplicant is rendered when a document holds no applicant name.
const AnonymousApplicant = "<Anonymous Applicant>"

// ApplicantName renders "Last, First" from the well-known name paths,
// falling back to the first name alone, or to the anonymous placeholder
// when no name was ever recorded.
func (d *Document) ApplicantName() string {
	first, ok := d.ReadString(FirstNamePath)
	if !ok {
		d.log.Error().Msg("document does not include an applicant name")
		return AnonymousApplicant
	}
	if last, ok := d.ReadString(LastNamePath); ok {
		return fmt.Sprintf("%s, %s", last, first)
	}
	return first
}

// SetUserName splits a display name on spaces into first/middle/last parts
// and records them. Two words become first and last; three become first,
// middle, and last; anything else lands entirely in the first name.
func (d *Document) SetUserName(displayName string) error {
	var first, middle, last string
	parts := strings.Split(displayName, " ")
	switch len(parts) {
	case 2:
		first, last = parts[0], parts[1]
	case 3:
		first, middle, last = parts[0], parts[1], parts[2]
	default:
		first = displayName
	}
	return d.SetUserNameParts(first, middle, last)
}

// SetUserNameParts records name parts at the well-known paths, skipping any
// part that is empty or already answered so an applicant's own answers are
// never clobbered by a login flow.
func (d *Document) SetUserNameParts(first, middle, last string) error {
	if err := d.checkLocked(); err != nil {
		return err
	}
	if !d.HasPath(FirstNamePath) {
		if err := d.PutString(FirstNamePath, first); err != nil {
			return err
		}
	}
	if middle != "" && !d.HasPath(MiddleNamePath) {
		if err := d.PutString(MiddleNamePath, middle); err != nil {
			return err
		}
	}
	if last != "" && !d.HasPath(LastNamePath) {
		if err := d.PutString(LastNamePath, last); err != nil {
			return err
		}
	}
	return nil
}
