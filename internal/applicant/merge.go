package applicant

import (
	"sort"

	"github.com/openbenefits/formd/internal/docpath"
	"github.com/openbenefits/formd/internal/docval"
)

// MergeFrom copies every key from other into this document, recursively.
// Keys absent here are copied in, object maps present on both sides are
// merged by recursion, and incoming arrays have their elements appended to
// the array already here. Scalars are never overwritten: a path where both
// documents hold differing values (a kind mismatch counts as differing) is
// reported as a conflict and left as-is, so resolution stays with the
// caller.
//
// Array appending is deliberately dumb - no de-duplication, no positional
// matching. Repeated-entity merges inherit that behavior.
func (d *Document) MergeFrom(other *Document) ([]docpath.Path, error) {
	if err := d.checkLocked(); err != nil {
		return nil, err
	}
	return d.mergeObject(docpath.Root, other.root), nil
}

func (d *Document) mergeObject(prefix docpath.Path, other docval.Object) []docpath.Path {
	var conflicts []docpath.Path

	// Keys are visited in sorted order so conflict reporting is
	// deterministic.
	keys := make([]string, 0, len(other))
	for k := range other {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := prefix.JoinKey(key)
		incoming := other[key]

		existing, ok := d.lookup(path)
		if !ok {
			if err := d.put(path, docval.Clone(incoming)); err != nil {
				// Structure here is incompatible with the incoming
				// subtree; surface it as a conflict rather than failing
				// the whole merge.
				conflicts = append(conflicts, path)
			}
			continue
		}

		switch in := incoming.(type) {
		case docval.Object:
			if _, isObj := existing.(docval.Object); isObj {
				conflicts = append(conflicts, d.mergeObject(path, in)...)
			} else {
				conflicts = append(conflicts, path)
			}
		case *docval.Array:
			if arr, isArr := existing.(*docval.Array); isArr {
				for _, elem := range in.Elems {
					arr.Append(docval.Clone(elem))
				}
			} else {
				conflicts = append(conflicts, path)
			}
		default:
			if !docval.ScalarEqual(existing, incoming) {
				conflicts = append(conflicts, path)
			}
		}
	}
	return conflicts
}
