package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// User-facing validation messages. The trailing asterisk is part of the text.
const (
	MsgSubprojectNameRequired = "Subproject name is required*"
	MsgDescriptionRequired    = "Description is required*"
	MsgProjectCostRequired    = "Project cost is required*"
	MsgProjectCostFormat      = "Invalid project cost format*"
	MsgSubprojectTypeRequired = "Subproject type is required*"
	MsgRegionRequired         = "Region is required*"
	MsgProvinceRequired       = "Province is required*"
	MsgMunicipalityRequired   = "Municipality is required*"
)

// projectCostPattern accepts comma-grouped thousands with an optional
// two-digit fractional part: "500", "1,234.56", "0.00".
var projectCostPattern = regexp.MustCompile(`^\d{1,3}(,\d{3})*(\.\d{2})?$`)

// ValidProjectCost reports whether value (after trimming) is a well-formed cost.
func ValidProjectCost(value string) bool {
	return projectCostPattern.MatchString(strings.TrimSpace(value))
}

// FieldErrors maps a field to its single error message.
type FieldErrors map[Field]string

// Has reports whether f carries an error.
func (fe FieldErrors) Has(f Field) bool {
	_, ok := fe[f]
	return ok
}

// Clone returns an independent copy.
func (fe FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		out[k] = v
	}
	return out
}

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports every failing field at once. Row is the index of
// the offending record when a list was validated, otherwise -1.
type ValidationError struct {
	Row    int
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[Field(k)]))
	}
	prefix := "validation failed"
	if e.Row >= 0 {
		prefix = fmt.Sprintf("validation failed for row %d", e.Row)
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validate runs every field check independently and returns the collected
// messages. An empty map means the record may be persisted. Only presence
// and the cost format are checked here; option membership for region,
// province and type is enforced by the selection layer.
func Validate(s Subproject) FieldErrors {
	errs := FieldErrors{}
	required := func(f Field, msg string) {
		if strings.TrimSpace(s.Get(f)) == "" {
			errs[f] = msg
		}
	}
	required(FieldSubprojectName, MsgSubprojectNameRequired)
	required(FieldDescription, MsgDescriptionRequired)
	switch {
	case strings.TrimSpace(s.ProjectCost) == "":
		errs[FieldProjectCost] = MsgProjectCostRequired
	case !ValidProjectCost(s.ProjectCost):
		errs[FieldProjectCost] = MsgProjectCostFormat
	}
	required(FieldSubprojectType, MsgSubprojectTypeRequired)
	required(FieldRegion, MsgRegionRequired)
	required(FieldProvince, MsgProvinceRequired)
	required(FieldMunicipality, MsgMunicipalityRequired)
	return errs
}
