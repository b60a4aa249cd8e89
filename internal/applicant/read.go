package applicant

import (
	"time"

	"github.com/openbenefits/formd/internal/docpath"
	"github.com/openbenefits/formd/internal/docval"
	"github.com/openbenefits/formd/internal/scalar"
)

// lookup walks the tree to the value addressed by path. Any missing key,
// out-of-range index, or non-container on the way resolves to absent.
func (d *Document) lookup(path docpath.Path) (docval.Value, bool) {
	var current docval.Value = d.root
	for _, seg := range path.Segments() {
		obj, ok := current.(docval.Object)
		if !ok {
			return nil, false
		}
		child, ok := obj[seg.Key]
		if !ok {
			return nil, false
		}
		if seg.HasIndex {
			arr, ok := child.(*docval.Array)
			if !ok {
				return nil, false
			}
			child, ok = arr.At(seg.Index)
			if !ok {
				return nil, false
			}
		}
		current = child
	}
	return current, true
}

// HasPath reports whether a value, including an explicit null, exists at
// path. Semantically: has the applicant answered this question before.
func (d *Document) HasPath(path docpath.Path) bool {
	_, ok := d.lookup(path)
	return ok
}

// HasValueAtPath reports whether a non-null value exists at path.
func (d *Document) HasValueAtPath(path docpath.Path) bool {
	v, ok := d.lookup(path)
	if !ok {
		return false
	}
	_, isNull := v.(docval.Null)
	return !isNull
}

// ReadString returns the string at path. Absence, an explicit null, or a
// value of another kind all resolve to not-present.
func (d *Document) ReadString(path docpath.Path) (string, bool) {
	v, ok := d.lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(docval.String)
	return string(s), ok
}

// ReadLong returns the long at path, with the same absence semantics as
// ReadString.
func (d *Document) ReadLong(path docpath.Path) (int64, bool) {
	v, ok := d.lookup(path)
	if !ok {
		return 0, false
	}
	n, ok := v.(docval.Long)
	return int64(n), ok
}

// ReadDate returns the stored date at path as a UTC civil date.
func (d *Document) ReadDate(path docpath.Path) (time.Time, bool) {
	ms, ok := d.ReadLong(path)
	if !ok {
		return time.Time{}, false
	}
	return scalar.DateFromEpochMillis(ms), true
}

// ReadCurrency returns the stored cents at path as a currency value.
func (d *Document) ReadCurrency(path docpath.Path) (scalar.Currency, bool) {
	cents, ok := d.ReadLong(path)
	if !ok {
		return scalar.Currency{}, false
	}
	return scalar.NewCurrency(cents), true
}

// ReadLongList returns the list of longs at path. A list holding any
// non-long element resolves to not-present.
func (d *Document) ReadLongList(path docpath.Path) ([]int64, bool) {
	v, ok := d.lookup(path)
	if !ok {
		return nil, false
	}
	arr, ok := v.(*docval.Array)
	if !ok {
		return nil, false
	}
	out := make([]int64, len(arr.Elems))
	for i, elem := range arr.Elems {
		n, ok := elem.(docval.Long)
		if !ok {
			return nil, false
		}
		out[i] = int64(n)
	}
	return out, true
}

// ReadAsString reads the value at path rendered as a string. Lists of longs
// are formatted as a single string; everything else defers to ReadString.
func (d *Document) ReadAsString(path docpath.Path) (string, bool) {
	if list, ok := d.ReadLongList(path); ok {
		return scalar.FormatLongList(list), true
	}
	return d.ReadString(path)
}

// ReadRepeatedEntities returns the names of the repeated entities at path,
// in index order. Enumeration stops at the first absent index, so sparse
// arrays cannot be observed. An entity missing its name scalar contributes
// an empty string.
func (d *Document) ReadRepeatedEntities(path docpath.Path) []string {
	names := []string{}
	for i := 0; d.HasPath(path.AtIndex(i)); i++ {
		name, _ := d.ReadString(path.AtIndex(i).Join(scalar.EntityName))
		names = append(names, name)
	}
	return names
}
