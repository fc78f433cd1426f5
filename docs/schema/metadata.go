// Package schema exposes the embedded JSON Schema of the persisted record
// list for runtime use.
package schema

import (
	_ "embed"
	"encoding/json"
	"sync"
)

// Metadata is the metadata block of the record layout schema.
type Metadata struct {
	Version    string `json:"version"`
	StorageKey string `json:"storage_key"`
}

type layoutDoc struct {
	Metadata Metadata `json:"metadata"`
	Items    struct {
		Required   []string `json:"required"`
		Properties map[string]struct {
			Pattern string `json:"pattern"`
		} `json:"properties"`
	} `json:"items"`
}

//go:embed subproject.schema.json
var recordSchema []byte

var (
	layoutOnce sync.Once
	layout     layoutDoc
	layoutErr  error
)

func loadLayout() (layoutDoc, error) {
	layoutOnce.Do(func() {
		layoutErr = json.Unmarshal(recordSchema, &layout)
	})
	return layout, layoutErr
}

// RecordSchema returns a copy of the embedded JSON Schema.
func RecordSchema() []byte {
	return append([]byte(nil), recordSchema...)
}

// RecordLayoutMetadata returns the version and storage key declared by the schema.
func RecordLayoutMetadata() (Metadata, error) {
	doc, err := loadLayout()
	return doc.Metadata, err
}

// RecordLayoutVersion returns the layout version, or "unknown" when the
// embedded schema cannot be read.
func RecordLayoutVersion() string {
	meta, err := RecordLayoutMetadata()
	if err != nil || meta.Version == "" {
		return "unknown"
	}
	return meta.Version
}

// RecordFields returns the member names every persisted record carries, in
// persisted order.
func RecordFields() ([]string, error) {
	doc, err := loadLayout()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), doc.Items.Required...), nil
}

// ProjectCostPattern returns the regular expression documented for projectCost.
func ProjectCostPattern() (string, error) {
	doc, err := loadLayout()
	if err != nil {
		return "", err
	}
	return doc.Items.Properties["projectCost"].Pattern, nil
}
