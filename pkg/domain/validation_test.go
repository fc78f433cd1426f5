package domain

import (
	"errors"
	"strings"
	"testing"
)

func validSubproject() Subproject {
	return Subproject{
		SubprojectName: "Rice Processing Center",
		Description:    "Mill and dryer for the cooperative",
		Region:         "Region III",
		Province:       "Nueva Ecija",
		Municipality:   "Cabanatuan",
		ProjectCost:    "1,234.56",
		SubprojectType: string(TypeProcessingFacility),
	}
}

func TestValidateAcceptsCompleteRecord(t *testing.T) {
	if errs := Validate(validSubproject()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateSingleBlankField(t *testing.T) {
	cases := map[Field]string{
		FieldSubprojectName: MsgSubprojectNameRequired,
		FieldDescription:    MsgDescriptionRequired,
		FieldRegion:         MsgRegionRequired,
		FieldProvince:       MsgProvinceRequired,
		FieldMunicipality:   MsgMunicipalityRequired,
		FieldProjectCost:    MsgProjectCostRequired,
		FieldSubprojectType: MsgSubprojectTypeRequired,
	}
	for field, want := range cases {
		t.Run(string(field), func(t *testing.T) {
			rec := validSubproject().With(field, "   ")
			errs := Validate(rec)
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if got := errs[field]; got != want {
				t.Fatalf("expected %q, got %q", want, got)
			}
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	errs := Validate(Subproject{})
	if len(errs) != len(Fields()) {
		t.Fatalf("expected %d errors, got %d: %v", len(Fields()), len(errs), errs)
	}
}

func TestProjectCostFormat(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"1,234.56", true},
		{"500", true},
		{"0.00", true},
		{"12,345,678", true},
		{" 500 ", true},
		{"abc", false},
		{"1234.5", false},
		{"", false},
		{"1,23.00", false},
		{"1234", false},
		{"500.", false},
	}
	for _, tc := range cases {
		if got := ValidProjectCost(tc.in); got != tc.want {
			t.Errorf("ValidProjectCost(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	errs := Validate(validSubproject().With(FieldProjectCost, "abc"))
	if errs[FieldProjectCost] != MsgProjectCostFormat {
		t.Fatalf("expected format message, got %v", errs)
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := error(&ValidationError{Row: -1, Fields: FieldErrors{FieldRegion: MsgRegionRequired}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is to match ErrValidation")
	}
	if !strings.Contains(err.Error(), "region: Region is required*") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	rowErr := &ValidationError{Row: 2, Fields: FieldErrors{FieldProjectCost: MsgProjectCostFormat}}
	if !strings.Contains(rowErr.Error(), "row 2") {
		t.Fatalf("expected row in message, got %q", rowErr.Error())
	}
}

func TestFieldErrorsClone(t *testing.T) {
	orig := FieldErrors{FieldRegion: MsgRegionRequired}
	cp := orig.Clone()
	cp[FieldProvince] = MsgProvinceRequired
	if orig.Has(FieldProvince) {
		t.Fatalf("clone shares storage with original")
	}
	if !cp.Has(FieldRegion) {
		t.Fatalf("clone lost entries")
	}
}
