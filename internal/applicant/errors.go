package applicant

import (
	"errors"
	"fmt"

	"github.com/openbenefits/formd/internal/docpath"
)

// ErrLocked is returned by every mutating operation after Lock has been
// called. Attempting to mutate a locked document is a caller bug, not a
// retryable condition.
var ErrLocked = errors.New("document is locked")

// KindMismatchError reports that a write ran into a value of the wrong kind
// along the path, e.g. descending through a scalar as if it were an object.
// Typed reads never surface this; they resolve mismatches to absent values.
type KindMismatchError struct {
	Path docpath.Path
	Want string
	Got  string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("value at %q is %s, want %s", e.Path, e.Got, e.Want)
}

func kindMismatch(path docpath.Path, want, got string) error {
	return &KindMismatchError{Path: path, Want: want, Got: got}
}
