package audit

import (
	"reflect"
	"time"
)

// Diff compares two snapshots field by field and returns one Change per
// watched field whose value differs. An empty result means nothing changed
// and callers must treat the whole operation as a no-op.
func Diff(oldState, newState map[string]any, watched []string) []Change {
	var changes []Change
	for _, field := range watched {
		oldVal, newVal := oldState[field], newState[field]
		if valuesEqual(oldVal, newVal) {
			continue
		}
		changes = append(changes, Change{Field: field, Old: oldVal, New: newVal})
	}
	return changes
}

// valuesEqual applies deep structural equality, comparing times by instant
// rather than by location or monotonic clock reading.
func valuesEqual(a, b any) bool {
	if at, ok := timeValue(a); ok {
		bt, ok := timeValue(b)
		return ok && at.Equal(bt)
	}
	if _, ok := timeValue(b); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}
