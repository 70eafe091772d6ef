package domain

import "strconv"

// Record is a normalized row keyed by canonical field names. Numeric
// canonical fields are stored as float64; an unset numeric field is
// simply absent from the map. Source columns that matched no alias are
// carried through under their original (trimmed) names.
type Record map[string]any

// String returns the value under key rendered as a string, or "" when
// the key is absent.
func (r Record) String(key string) string {
	value, ok := r[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Number returns the numeric value under key. The second return value
// reports whether the field is set and numeric.
func (r Record) Number(key string) (float64, bool) {
	value, ok := r[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Clone returns a shallow copy of the record so callers can mutate
// their copy without affecting cached data.
func (r Record) Clone() Record {
	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// CloneRecords shallow-copies a record slice.
func CloneRecords(records []Record) []Record {
	cloned := make([]Record, len(records))
	for i, record := range records {
		cloned[i] = record.Clone()
	}
	return cloned
}
