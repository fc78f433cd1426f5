package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"subprofile/internal/catalog"
	"subprofile/internal/infra/persistence/memory"
	"subprofile/pkg/domain"
)

type recordedOp struct {
	op      string
	success bool
}

type fakeMetrics struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (m *fakeMetrics) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, recordedOp{op: op, success: success})
}

func sampleRecord() domain.Subproject {
	return domain.Subproject{
		SubprojectName: "Rice Processing Center",
		Description:    "Mill and dryer",
		Region:         "Region III",
		Province:       "Nueva Ecija",
		Municipality:   "Cabanatuan",
		ProjectCost:    "1,234.56",
		SubprojectType: string(domain.TypeProcessingFacility),
	}
}

func fill(t *testing.T, f *Form, rec domain.Subproject) {
	t.Helper()
	for _, field := range domain.Fields() {
		if err := f.Set(field, rec.Get(field)); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}
}

func TestSubmitPersistsVerbatim(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	metrics := &fakeMetrics{}
	form := NewForm(catalog.MustDefault(), store, WithMetrics(metrics))

	rec := sampleRecord()
	rec.SubprojectName = "  Rice Processing Center "
	fill(t, form, rec)
	n, err := form.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if n.Message != MsgSubmitted {
		t.Fatalf("unexpected notification %q", n.Message)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]domain.Subproject{rec}, got); diff != "" {
		t.Fatalf("stored records mismatch (-want +got):\n%s", diff)
	}
	if form.Values() != (domain.Subproject{}) || len(form.Errors()) != 0 || form.State() != StateEditing {
		t.Fatalf("form not reset: %+v %v %s", form.Values(), form.Errors(), form.State())
	}

	fill(t, form, sampleRecord())
	if _, err := form.Submit(ctx); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	got, _ = store.Load(ctx)
	if len(got) != 2 {
		t.Fatalf("expected collection to grow by one, got %d", len(got))
	}
	if diff := cmp.Diff([]recordedOp{{OpSubmit, true}, {OpSubmit, true}}, metrics.ops, cmp.AllowUnexported(recordedOp{})); diff != "" {
		t.Fatalf("metrics mismatch:\n%s", diff)
	}
}

func TestSubmitSingleBlankField(t *testing.T) {
	want := map[domain.Field]string{
		domain.FieldSubprojectName: domain.MsgSubprojectNameRequired,
		domain.FieldDescription:    domain.MsgDescriptionRequired,
		domain.FieldRegion:         domain.MsgRegionRequired,
		domain.FieldProvince:       domain.MsgProvinceRequired,
		domain.FieldMunicipality:   domain.MsgMunicipalityRequired,
		domain.FieldProjectCost:    domain.MsgProjectCostRequired,
		domain.FieldSubprojectType: domain.MsgSubprojectTypeRequired,
	}
	for field, msg := range want {
		t.Run(string(field), func(t *testing.T) {
			store := memory.NewStore()
			form := NewForm(catalog.MustDefault(), store)
			fill(t, form, sampleRecord())
			if err := form.Set(field, ""); err != nil {
				t.Fatalf("blank %s: %v", field, err)
			}
			_, err := form.Submit(context.Background())
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if diff := cmp.Diff(domain.FieldErrors{field: msg}, verr.Fields); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
			if form.State() != StateEditingWithErrors || form.Errors()[field] != msg {
				t.Fatalf("form did not keep errors: %s %v", form.State(), form.Errors())
			}
			if store.Writes() != 0 {
				t.Fatalf("nothing should be persisted, saw %d writes", store.Writes())
			}
		})
	}
}

func TestSubmitReportsAllMessagesAtOnce(t *testing.T) {
	metrics := &fakeMetrics{}
	form := NewForm(catalog.MustDefault(), memory.NewStore(), WithMetrics(metrics))
	if err := form.Set(domain.FieldProjectCost, "abc"); err != nil {
		t.Fatalf("set cost: %v", err)
	}
	_, err := form.Submit(context.Background())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	errs := form.Errors()
	if len(errs) != len(domain.Fields()) {
		t.Fatalf("expected every field reported, got %v", errs)
	}
	if errs[domain.FieldProjectCost] != domain.MsgProjectCostFormat {
		t.Fatalf("expected format message, got %q", errs[domain.FieldProjectCost])
	}
	if len(metrics.ops) != 1 || metrics.ops[0].success {
		t.Fatalf("expected one failed submit observation, got %+v", metrics.ops)
	}
}

func TestSubmitCostFormats(t *testing.T) {
	cases := map[string]bool{
		"1,234.56": true,
		"500":      true,
		"0.00":     true,
		"abc":      false,
		"1234.5":   false,
		"1,23.00":  false,
	}
	for cost, ok := range cases {
		store := memory.NewStore()
		form := NewForm(catalog.MustDefault(), store)
		rec := sampleRecord()
		rec.ProjectCost = cost
		fill(t, form, rec)
		_, err := form.Submit(context.Background())
		if ok && err != nil {
			t.Errorf("cost %q: unexpected error %v", cost, err)
		}
		if !ok && form.Errors()[domain.FieldProjectCost] != domain.MsgProjectCostFormat {
			t.Errorf("cost %q: expected format error, got %v", cost, form.Errors())
		}
	}
}

func TestClearNeverTouchesStorage(t *testing.T) {
	store := memory.NewStore()
	form := NewForm(catalog.MustDefault(), store)
	fill(t, form, sampleRecord())
	_ = form.Set(domain.FieldDescription, "")
	if _, err := form.Submit(context.Background()); err == nil {
		t.Fatalf("expected validation error")
	}
	n := form.Clear()
	if n.Message != MsgCleared {
		t.Fatalf("unexpected notification %q", n.Message)
	}
	if form.Values() != (domain.Subproject{}) || len(form.Errors()) != 0 || form.State() != StateEditing {
		t.Fatalf("clear left state behind")
	}
	if store.Reads() != 0 || store.Writes() != 0 {
		t.Fatalf("clear touched storage: reads=%d writes=%d", store.Reads(), store.Writes())
	}
}

func TestRegionCascade(t *testing.T) {
	form := NewForm(catalog.MustDefault(), memory.NewStore())
	if len(form.ProvinceOptions()) != 0 {
		t.Fatalf("no provinces before a region is chosen")
	}
	if err := form.Set(domain.FieldRegion, "NCR"); err != nil {
		t.Fatalf("set region: %v", err)
	}
	if diff := cmp.Diff([]string{"Metro Manila"}, form.ProvinceOptions()); diff != "" {
		t.Fatalf("NCR provinces mismatch:\n%s", diff)
	}
	if err := form.Set(domain.FieldProvince, "Nueva Ecija"); !errors.Is(err, ErrNotAnOption) {
		t.Fatalf("expected ErrNotAnOption, got %v", err)
	}
	if err := form.Set(domain.FieldProvince, "Metro Manila"); err != nil {
		t.Fatalf("set province: %v", err)
	}
	if err := form.Set(domain.FieldRegion, "NCR"); err != nil || form.Values().Province != "Metro Manila" {
		t.Fatalf("reselecting the region should keep a valid province")
	}
	if err := form.Set(domain.FieldRegion, "Region III"); err != nil {
		t.Fatalf("set region: %v", err)
	}
	if form.Values().Province != "" {
		t.Fatalf("province should reset when it leaves the option list, got %q", form.Values().Province)
	}
	if err := form.Set(domain.FieldRegion, "Atlantis"); !errors.Is(err, ErrNotAnOption) {
		t.Fatalf("expected ErrNotAnOption for unknown region, got %v", err)
	}
	if err := form.Set(domain.FieldSubprojectType, "Spaceport"); !errors.Is(err, ErrNotAnOption) {
		t.Fatalf("expected ErrNotAnOption for unknown type, got %v", err)
	}
	if err := form.Set(domain.Field("bogus"), "x"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if len(form.SubprojectTypeOptions()) != len(domain.SubprojectTypes()) || len(form.RegionOptions()) != 16 {
		t.Fatalf("unexpected option lists")
	}
}

type failingStore struct{ err error }

func (s failingStore) Load(context.Context) ([]domain.Subproject, error) { return nil, s.err }
func (s failingStore) Append(context.Context, domain.Subproject) error { return s.err }
func (s failingStore) ReplaceAll(context.Context, []domain.Subproject) error { return s.err }

func TestSubmitKeepsValuesOnStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	form := NewForm(catalog.MustDefault(), failingStore{err: boom})
	fill(t, form, sampleRecord())
	if _, err := form.Submit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if form.Values() != sampleRecord() {
		t.Fatalf("values should survive a failed append")
	}
}

func TestSubmitKeepsRecordsWithNonStringMembers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.Seed([]byte(`[{"subprojectName":"Seawall","projectCost":"500"},` +
		`{"subprojectName":"Footbridge","projectCost":750}]`))

	form := NewForm(catalog.MustDefault(), store)
	fill(t, form, sampleRecord())
	if _, err := form.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []domain.Subproject{
		{SubprojectName: "Seawall", ProjectCost: "500"},
		{SubprojectName: "Footbridge", ProjectCost: "750"},
		sampleRecord(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("existing records not kept (-want +got):\n%s", diff)
	}
}
