package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"subprofile/pkg/domain"
)

// State is the position of a Form in its submit cycle.
type State int

const (
	// StateEditing is the initial state and the state after a successful
	// submit or a clear.
	StateEditing State = iota
	// StateEditingWithErrors follows a submit that failed validation.
	StateEditingWithErrors
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateEditingWithErrors:
		return "editing-with-errors"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Form holds the values of one entry form and submits them to the store.
type Form struct {
	catalog  Catalog
	store    domain.RecordStore
	settings settings

	values domain.Subproject
	errors domain.FieldErrors
	state  State
}

// NewForm returns an empty form.
func NewForm(cat Catalog, store domain.RecordStore, opts ...Option) *Form {
	return &Form{
		catalog:  cat,
		store:    store,
		settings: newSettings(opts),
		errors:   domain.FieldErrors{},
	}
}

// Set assigns value to field. Region, province and subproject type only
// accept the empty placeholder or one of their current options. Selecting a
// region drops a province that does not belong to it; returning the region
// to the placeholder leaves the province alone.
func (f *Form) Set(field domain.Field, value string) error {
	switch field {
	case domain.FieldRegion:
		if value != "" && !contains(f.RegionOptions(), value) {
			return fmt.Errorf("region %q: %w", value, ErrNotAnOption)
		}
		f.values.Region = value
		if value != "" && f.values.Province != "" && !contains(f.ProvinceOptions(), f.values.Province) {
			f.values.Province = ""
		}
		return nil
	case domain.FieldProvince:
		if value != "" && !contains(f.ProvinceOptions(), value) {
			return fmt.Errorf("province %q: %w", value, ErrNotAnOption)
		}
	case domain.FieldSubprojectType:
		if value != "" && !domain.SubprojectType(value).IsValid() {
			return fmt.Errorf("subproject type %q: %w", value, ErrNotAnOption)
		}
	case domain.FieldSubprojectName, domain.FieldDescription, domain.FieldMunicipality, domain.FieldProjectCost:
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	f.values = f.values.With(field, value)
	return nil
}

// RegionOptions lists the selectable regions.
func (f *Form) RegionOptions() []string {
	return f.catalog.Regions()
}

// ProvinceOptions lists the provinces of the selected region. It is empty
// until a known region is selected.
func (f *Form) ProvinceOptions() []string {
	if f.values.Region == "" {
		return nil
	}
	provinces, err := f.catalog.ProvincesOf(f.values.Region)
	if err != nil {
		return nil
	}
	return provinces
}

// SubprojectTypeOptions lists the subproject categories.
func (f *Form) SubprojectTypeOptions() []string {
	types := domain.SubprojectTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// Values returns the current field values.
func (f *Form) Values() domain.Subproject { return f.values }

// Errors returns the messages produced by the last submit.
func (f *Form) Errors() domain.FieldErrors { return f.errors.Clone() }

// State reports where the form is in its submit cycle.
func (f *Form) State() State { return f.state }

// Submit validates every field and, when all pass, appends the values to the
// store and resets the form. A failed validation returns a
// *domain.ValidationError carrying every message and persists nothing.
func (f *Form) Submit(ctx context.Context) (n Notification, err error) {
	start := f.settings.now()
	defer func() { f.settings.observe(ctx, OpSubmit, start, err) }()

	rec := f.values
	errs := domain.Validate(rec)
	if len(errs) > 0 {
		f.errors = errs
		f.state = StateEditingWithErrors
		f.settings.logger.Debug("submit rejected", zap.Int("fields", len(errs)))
		return Notification{}, &domain.ValidationError{Row: -1, Fields: errs.Clone()}
	}
	if err := f.store.Append(ctx, rec); err != nil {
		f.settings.logger.Error("submit failed", zap.Error(err))
		return Notification{}, fmt.Errorf("append record: %w", err)
	}
	f.reset()
	f.settings.logger.Info("subproject submitted",
		zap.String("subproject", rec.SubprojectName),
		zap.String("project_cost", rec.ProjectCost),
		zap.Duration("elapsed", time.Since(start)),
	)
	return Notification{Message: MsgSubmitted}, nil
}

// Clear empties every field and message without validating or touching
// the store.
func (f *Form) Clear() Notification {
	f.reset()
	return Notification{Message: MsgCleared}
}

func (f *Form) reset() {
	f.values = domain.Subproject{}
	f.errors = domain.FieldErrors{}
	f.state = StateEditing
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
