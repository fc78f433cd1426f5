package domain

import (
	"bytes"
	"context"
	"encoding/json"
)

// DefaultStorageKey is the key the record list is stored under.
const DefaultStorageKey = "formData"

// RecordStore persists the ordered subproject list as one serialized value.
// Every mutation is a full read-modify-write of that value.
type RecordStore interface {
	// Load returns the stored list. A missing or malformed value yields an
	// empty list and no error.
	Load(ctx context.Context) ([]Subproject, error)
	// Append loads, appends rec and writes the whole list back.
	Append(ctx context.Context, rec Subproject) error
	// ReplaceAll overwrites the stored list with recs.
	ReplaceAll(ctx context.Context, recs []Subproject) error
}

// EncodeRecords renders recs as a JSON array. A nil slice encodes as [].
func EncodeRecords(recs []Subproject) ([]byte, error) {
	if recs == nil {
		recs = []Subproject{}
	}
	return json.Marshal(recs)
}

// DecodeRecords parses a persisted value. Anything that is not a JSON array
// decodes to an empty list. Inside an array, elements are decoded one by one:
// non-object elements are skipped, and a member holding a number or boolean
// keeps its literal text so no stored record is lost on the next write.
func DecodeRecords(payload []byte) []Subproject {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []Subproject{}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return []Subproject{}
	}
	recs := make([]Subproject, 0, len(elems))
	for _, raw := range elems {
		if rec, ok := decodeRecord(raw); ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

func decodeRecord(raw json.RawMessage) (Subproject, bool) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil || members == nil {
		return Subproject{}, false
	}
	var rec Subproject
	for _, f := range fieldOrder {
		if v, ok := members[string(f)]; ok {
			rec = rec.With(f, scalarText(v))
		}
	}
	return rec, true
}

// scalarText returns the value of a JSON string, or the literal text of a
// number or boolean. null, objects and arrays read as "".
func scalarText(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	t := bytes.TrimSpace(v)
	if len(t) == 0 || t[0] == '{' || t[0] == '[' {
		return ""
	}
	return string(t)
}

// CloneRecords returns a copy of recs safe to mutate.
func CloneRecords(recs []Subproject) []Subproject {
	out := make([]Subproject, len(recs))
	copy(out, recs)
	return out
}
