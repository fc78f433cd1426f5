package schema

import (
	"bytes"
	"testing"
)

func TestRecordLayoutMetadata(t *testing.T) {
	meta, err := RecordLayoutMetadata()
	if err != nil {
		t.Fatalf("RecordLayoutMetadata: %v", err)
	}
	if meta.Version == "" || meta.StorageKey != "formData" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if RecordLayoutVersion() != meta.Version {
		t.Fatalf("version mismatch")
	}
}

func TestRecordFieldsAndPattern(t *testing.T) {
	fields, err := RecordFields()
	if err != nil {
		t.Fatalf("RecordFields: %v", err)
	}
	if len(fields) != 7 || fields[0] != "subprojectName" || fields[6] != "subprojectType" {
		t.Fatalf("unexpected fields %v", fields)
	}
	pattern, err := ProjectCostPattern()
	if err != nil || pattern != `^\d{1,3}(,\d{3})*(\.\d{2})?$` {
		t.Fatalf("unexpected pattern %q (%v)", pattern, err)
	}
}

func TestRecordSchemaReturnsCopy(t *testing.T) {
	a := RecordSchema()
	a[0] ^= 0xFF
	if bytes.Equal(a, RecordSchema()) {
		t.Fatalf("RecordSchema must return a copy")
	}
}
