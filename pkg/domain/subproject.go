// Package domain holds the subproject profile record, its field identifiers,
// the validation rules every persisted record satisfies, and the storage
// contract used by the workflow layer.
package domain

import "fmt"

// Field identifies one of the seven subproject attributes. The string value
// is the JSON member name used in the persisted layout.
type Field string

const (
	FieldSubprojectName Field = "subprojectName"
	FieldDescription    Field = "description"
	FieldRegion         Field = "region"
	FieldProvince       Field = "province"
	FieldMunicipality   Field = "municipality"
	FieldProjectCost    Field = "projectCost"
	FieldSubprojectType Field = "subprojectType"
)

var fieldOrder = []Field{
	FieldSubprojectName,
	FieldDescription,
	FieldRegion,
	FieldProvince,
	FieldMunicipality,
	FieldProjectCost,
	FieldSubprojectType,
}

// Fields returns every field in persisted order.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// ParseField resolves a JSON member name into a Field.
func ParseField(name string) (Field, error) {
	for _, f := range fieldOrder {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// SubprojectType is the closed set of subproject categories.
type SubprojectType string

const (
	TypeFarmToMarketRoad         SubprojectType = "Farm-to-Market Road"
	TypeCommunalIrrigationSystem SubprojectType = "Communal Irrigation System"
	TypePotableWaterSystem       SubprojectType = "Potable Water System"
	TypeBridge                   SubprojectType = "Bridge"
	TypeProductionFacility       SubprojectType = "Production Facility"
	TypePostharvestFacility      SubprojectType = "Postharvest Facility"
	TypeProcessingFacility       SubprojectType = "Processing Facility"
	TypeTradingPost              SubprojectType = "Trading Post"
)

var subprojectTypes = []SubprojectType{
	TypeFarmToMarketRoad,
	TypeCommunalIrrigationSystem,
	TypePotableWaterSystem,
	TypeBridge,
	TypeProductionFacility,
	TypePostharvestFacility,
	TypeProcessingFacility,
	TypeTradingPost,
}

// SubprojectTypes returns the categories in display order.
func SubprojectTypes() []SubprojectType {
	out := make([]SubprojectType, len(subprojectTypes))
	copy(out, subprojectTypes)
	return out
}

// IsValid reports whether t is one of the known categories.
func (t SubprojectType) IsValid() bool {
	for _, known := range subprojectTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t SubprojectType) String() string { return string(t) }

// Subproject is one submitted profile. It has no identity field; records are
// addressed by position or, for updates, by their projectCost value.
type Subproject struct {
	SubprojectName string `json:"subprojectName"`
	Description    string `json:"description"`
	Region         string `json:"region"`
	Province       string `json:"province"`
	Municipality   string `json:"municipality"`
	ProjectCost    string `json:"projectCost"`
	SubprojectType string `json:"subprojectType"`
}

// Get returns the value held in field f.
func (s Subproject) Get(f Field) string {
	switch f {
	case FieldSubprojectName:
		return s.SubprojectName
	case FieldDescription:
		return s.Description
	case FieldRegion:
		return s.Region
	case FieldProvince:
		return s.Province
	case FieldMunicipality:
		return s.Municipality
	case FieldProjectCost:
		return s.ProjectCost
	case FieldSubprojectType:
		return s.SubprojectType
	default:
		return ""
	}
}

// With returns a copy of s with field f set to value. Unknown fields leave
// the record unchanged.
func (s Subproject) With(f Field, value string) Subproject {
	switch f {
	case FieldSubprojectName:
		s.SubprojectName = value
	case FieldDescription:
		s.Description = value
	case FieldRegion:
		s.Region = value
	case FieldProvince:
		s.Province = value
	case FieldMunicipality:
		s.Municipality = value
	case FieldProjectCost:
		s.ProjectCost = value
	case FieldSubprojectType:
		s.SubprojectType = value
	}
	return s
}
