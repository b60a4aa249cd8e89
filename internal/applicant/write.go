package applicant

import (
	"errors"
	"sort"

	"github.com/openbenefits/formd/internal/docpath"
	"github.com/openbenefits/formd/internal/docval"
	"github.com/openbenefits/formd/internal/scalar"
)

// PutString writes a string at path. An empty input clears the answer
// instead of storing a value.
func (d *Document) PutString(path docpath.Path, value string) error {
	if value == "" {
		return d.putNull(path)
	}
	return d.put(path, docval.String(value))
}

// PutLong writes a long at path.
func (d *Document) PutLong(path docpath.Path, value int64) error {
	return d.put(path, docval.Long(value))
}

// PutLongString parses and writes a long given in raw string form. An
// empty input clears the answer.
func (d *Document) PutLongString(path docpath.Path, raw string) error {
	if raw == "" {
		return d.putNull(path)
	}
	n, err := scalar.ParseLong(raw)
	if err != nil {
		return err
	}
	return d.put(path, docval.Long(n))
}

// PutDate parses a yyyy-MM-dd date string and stores it as epoch
// milliseconds at UTC midnight. An empty input clears the answer; a
// malformed date is a parse error for the caller's validation layer.
func (d *Document) PutDate(path docpath.Path, raw string) error {
	if raw == "" {
		return d.putNull(path)
	}
	t, err := scalar.ParseDate(raw)
	if err != nil {
		return err
	}
	return d.put(path, docval.Long(scalar.DateToEpochMillis(t)))
}

// PutCurrencyDollars validates a dollars string and stores it as cents.
// An empty input clears the answer.
func (d *Document) PutCurrencyDollars(path docpath.Path, raw string) error {
	if raw == "" {
		return d.putNull(path)
	}
	c, err := scalar.ParseCurrencyDollars(raw)
	if err != nil {
		return err
	}
	return d.put(path, docval.Long(c.Cents()))
}

// PutLongList stores a list of longs at path.
func (d *Document) PutLongList(path docpath.Path, values []int64) error {
	arr := docval.NewArray()
	for _, v := range values {
		arr.Append(docval.Long(v))
	}
	return d.put(path, arr)
}

// PutRepeatedEntities writes each entity's name scalar at sequential
// indices under path, leaving any other data already nested in those
// entities untouched. An empty name list stores an explicit empty array.
func (d *Document) PutRepeatedEntities(path docpath.Path, entityNames []string) error {
	if err := d.checkLocked(); err != nil {
		return err
	}
	if len(entityNames) == 0 {
		return d.put(path.WithoutArrayReference(), docval.NewArray())
	}
	for i, name := range entityNames {
		if err := d.PutString(path.AtIndex(i).Join(scalar.EntityName), name); err != nil {
			return err
		}
	}
	return nil
}

// putNull clears the answer at path: an empty raw input means the applicant
// erased the field, so nothing should remain stored there. Writes targeting
// an array element are skipped entirely - removing a slot would shift the
// indices of its siblings.
func (d *Document) putNull(path docpath.Path) error {
	if path.IsArrayElement() {
		return d.checkLocked()
	}
	return d.MaybeDelete(path)
}

// put writes value at path, creating every missing ancestor object or array
// slot on the way down. The descent is a single iterative walk: for each
// segment it ensures the addressed node exists before stepping into it.
// Arrays are always materialized contiguously from index 0, so no write can
// leave a gap.
func (d *Document) put(path docpath.Path, value docval.Value) error {
	if err := d.checkLocked(); err != nil {
		return err
	}
	if path.IsRoot() {
		return errors.New("cannot write to the document root")
	}

	segs := path.Segments()
	current, err := d.ensureContainers(path, segs[:len(segs)-1])
	if err != nil {
		return err
	}

	last := segs[len(segs)-1]
	if !last.HasIndex {
		current[last.Key] = value
		return nil
	}

	arr, err := ensureArray(current, last.Key, path)
	if err != nil {
		return err
	}
	// Fill the slots below the target with empty entities, then place the
	// value. Overwrites are allowed once the slot exists.
	for arr.Len() < last.Index {
		arr.Append(docval.Object{})
	}
	if arr.Len() == last.Index {
		arr.Append(value)
	} else {
		arr.Elems[last.Index] = value
	}
	return nil
}

// ensureContainers walks the ancestor segments of a write, creating missing
// objects and contiguous array slots, and returns the object that will hold
// the final segment.
func (d *Document) ensureContainers(path docpath.Path, segs []docpath.Segment) (docval.Object, error) {
	current := d.root
	for _, seg := range segs {
		if !seg.HasIndex {
			child, ok := current[seg.Key]
			if !ok {
				obj := docval.Object{}
				current[seg.Key] = obj
				current = obj
				continue
			}
			obj, ok := child.(docval.Object)
			if !ok {
				return nil, kindMismatch(path, "object", kindName(child))
			}
			current = obj
			continue
		}

		arr, err := ensureArray(current, seg.Key, path)
		if err != nil {
			return nil, err
		}
		for arr.Len() <= seg.Index {
			arr.Append(docval.Object{})
		}
		elem, _ := arr.At(seg.Index)
		obj, ok := elem.(docval.Object)
		if !ok {
			return nil, kindMismatch(path, "object", kindName(elem))
		}
		current = obj
	}
	return current, nil
}

func ensureArray(parent docval.Object, key string, path docpath.Path) (*docval.Array, error) {
	child, ok := parent[key]
	if !ok {
		arr := docval.NewArray()
		parent[key] = arr
		return arr, nil
	}
	arr, ok := child.(*docval.Array)
	if !ok {
		return nil, kindMismatch(path, "array", kindName(child))
	}
	return arr, nil
}

func kindName(v docval.Value) string {
	switch v.(type) {
	case docval.Null:
		return "null"
	case docval.String:
		return "string"
	case docval.Long:
		return "long"
	case docval.Bool:
		return "bool"
	case docval.Object:
		return "object"
	case *docval.Array:
		return "array"
	default:
		return "unknown"
	}
}

// MaybeDelete removes the value at path if present and is a no-op
// otherwise. Absence is never an error.
func (d *Document) MaybeDelete(path docpath.Path) error {
	if err := d.checkLocked(); err != nil {
		return err
	}
	if path.IsRoot() || !d.HasPath(path) {
		return nil
	}
	if path.IsArrayElement() {
		v, ok := d.lookup(path.WithoutArrayReference())
		if !ok {
			return nil
		}
		if arr, isArr := v.(*docval.Array); isArr {
			arr.Remove(path.ArrayIndex())
		}
		return nil
	}
	parent, ok := d.lookup(path.ParentPath())
	if !ok {
		return nil
	}
	if obj, isObj := parent.(docval.Object); isObj {
		delete(obj, path.KeyName())
	}
	return nil
}

// MaybeClearArray removes the array containing the addressed element in
// preparation for a fresh set of updates, creating the ancestors on the way
// so later writes land in a clean spot. Paths that are not array elements
// are left alone.
func (d *Document) MaybeClearArray(path docpath.Path) error {
	if err := d.checkLocked(); err != nil {
		return err
	}
	if !path.IsArrayElement() {
		return nil
	}
	segs := path.Segments()
	if _, err := d.ensureContainers(path, segs[:len(segs)-1]); err != nil {
		return err
	}
	return d.MaybeDelete(path.WithoutArrayReference())
}

// DeleteRepeatedEntities deletes the entire sub-document for each listed
// entity index. Existence is checked against the largest index only, and
// deletion proceeds in descending index order so earlier deletions cannot
// shift the positions of entities still to be deleted. Returns whether
// anything was deleted.
func (d *Document) DeleteRepeatedEntities(path docpath.Path, indices []int) (bool, error) {
	if err := d.checkLocked(); err != nil {
		return false, err
	}
	if len(indices) == 0 {
		return false, nil
	}

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	if !d.HasPath(path.AtIndex(sorted[0])) {
		return false, nil
	}
	for _, idx := range sorted {
		if err := d.MaybeDelete(path.AtIndex(idx)); err != nil {
			return false, err
		}
	}
	return true, nil
}

// MaybeClearRepeatedEntities removes the entity array at path entirely if
// it holds no entities, returning true when no entities remain. An array
// with entities is left untouched: only DeleteRepeatedEntities is trusted
// to remove real entity data.
func (d *Document) MaybeClearRepeatedEntities(path docpath.Path) (bool, error) {
	if err := d.checkLocked(); err != nil {
		return false, err
	}
	if len(d.ReadRepeatedEntities(path)) == 0 {
		if err := d.MaybeDelete(path.WithoutArrayReference()); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
