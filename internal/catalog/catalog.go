// Package catalog exposes the static administrative hierarchy (regions,
// provinces, municipalities) and the subproject categories offered by the
// entry form.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"subprofile/pkg/domain"
)

// Embedded location hierarchy shipped with the binary.
//
//go:embed locations.yaml
var embeddedLocations []byte

// ErrNotFound is returned when a region or province has no catalog entry.
var ErrNotFound = errors.New("catalog: not found")

type regionDoc struct {
	Name      string   `yaml:"name"`
	Provinces []string `yaml:"provinces"`
}

type locationsDoc struct {
	Regions        []regionDoc         `yaml:"regions"`
	Municipalities map[string][]string `yaml:"municipalities"`
}

// Catalog is an immutable lookup over the location hierarchy.
type Catalog struct {
	regions        []string
	provinces      map[string][]string
	municipalities map[string][]string
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog parsed from the embedded locations file.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(embeddedLocations)
	})
	return defaultCat, defaultErr
}

// MustDefault is Default for callers that treat a broken embedded file as a
// programming error.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML content shaped like locations.yaml.
func Parse(data []byte) (*Catalog, error) {
	var doc locationsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse locations: %w", err)
	}
	c := &Catalog{
		regions:        make([]string, 0, len(doc.Regions)),
		provinces:      make(map[string][]string, len(doc.Regions)),
		municipalities: make(map[string][]string, len(doc.Municipalities)),
	}
	for _, r := range doc.Regions {
		if r.Name == "" {
			return nil, fmt.Errorf("parse locations: region without name")
		}
		if _, dup := c.provinces[r.Name]; dup {
			return nil, fmt.Errorf("parse locations: duplicate region %q", r.Name)
		}
		c.regions = append(c.regions, r.Name)
		c.provinces[r.Name] = append([]string(nil), r.Provinces...)
	}
	for province, towns := range doc.Municipalities {
		c.municipalities[province] = append([]string(nil), towns...)
	}
	return c, nil
}

// Regions returns every region in display order.
func (c *Catalog) Regions() []string {
	return append([]string(nil), c.regions...)
}

// HasRegion reports whether region is known.
func (c *Catalog) HasRegion(region string) bool {
	_, ok := c.provinces[region]
	return ok
}

// ProvincesOf returns the provinces of region. Unknown or empty regions
// yield ErrNotFound.
func (c *Catalog) ProvincesOf(region string) ([]string, error) {
	list, ok := c.provinces[region]
	if !ok {
		return nil, fmt.Errorf("region %q: %w", region, ErrNotFound)
	}
	return append([]string(nil), list...), nil
}

// HasProvince reports whether province belongs to region.
func (c *Catalog) HasProvince(region, province string) bool {
	for _, p := range c.provinces[region] {
		if p == province {
			return true
		}
	}
	return false
}

// MunicipalitiesOf returns the municipalities of province. Provinces without
// municipality data yield ErrNotFound.
func (c *Catalog) MunicipalitiesOf(province string) ([]string, error) {
	list, ok := c.municipalities[province]
	if !ok {
		return nil, fmt.Errorf("province %q: %w", province, ErrNotFound)
	}
	return append([]string(nil), list...), nil
}

// SubprojectTypes returns the subproject categories in display order.
func (c *Catalog) SubprojectTypes() []domain.SubprojectType {
	return domain.SubprojectTypes()
}

// CheckLocation reports catalog membership problems for a record's region
// and province using the same messages as the required checks. Blank values
// are left to domain.Validate.
func (c *Catalog) CheckLocation(rec domain.Subproject) domain.FieldErrors {
	errs := domain.FieldErrors{}
	if rec.Region != "" && !c.HasRegion(rec.Region) {
		errs[domain.FieldRegion] = domain.MsgRegionRequired
	}
	if rec.Province != "" && !c.HasProvince(rec.Region, rec.Province) {
		errs[domain.FieldProvince] = domain.MsgProvinceRequired
	}
	if rec.SubprojectType != "" && !domain.SubprojectType(rec.SubprojectType).IsValid() {
		errs[domain.FieldSubprojectType] = domain.MsgSubprojectTypeRequired
	}
	return errs
}
