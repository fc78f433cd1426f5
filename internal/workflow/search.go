package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"subprofile/pkg/domain"
)

// Row is one search hit. Index is the record's position in the full list.
type Row struct {
	Index  int               `json:"row"`
	Record domain.Subproject `json:"record"`
}

// SearchSession is a loaded snapshot of the record list with a buffer of
// staged cell edits.
type SearchSession struct {
	catalog  Catalog
	store    domain.RecordStore
	settings settings

	records   []domain.Subproject
	pending   map[int]map[domain.Field]string
	lastQuery string
}

// OpenSearch loads the full record list from store.
func OpenSearch(ctx context.Context, cat Catalog, store domain.RecordStore, opts ...Option) (*SearchSession, error) {
	s := &SearchSession{
		catalog:  cat,
		store:    store,
		settings: newSettings(opts),
		pending:  map[int]map[domain.Field]string{},
	}
	records, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	s.records = records
	return s, nil
}

// Search returns the records where any field contains query, ignoring case.
// The empty query matches everything.
func (s *SearchSession) Search(ctx context.Context, query string) []Row {
	start := s.settings.now()
	s.lastQuery = query
	rows := s.filter(query)
	s.settings.observe(ctx, OpSearch, start, nil)
	s.settings.logger.Debug("search", zap.String("query", query), zap.Int("hits", len(rows)))
	return rows
}

// Results re-runs the most recent query against the current list.
func (s *SearchSession) Results() []Row {
	return s.filter(s.lastQuery)
}

func (s *SearchSession) filter(query string) []Row {
	needle := strings.ToLower(query)
	rows := make([]Row, 0, len(s.records))
	for i, rec := range s.records {
		if matches(rec, needle) {
			rows = append(rows, Row{Index: i, Record: rec})
		}
	}
	return rows
}

func matches(rec domain.Subproject, needle string) bool {
	if needle == "" {
		return true
	}
	for _, f := range domain.Fields() {
		if strings.Contains(strings.ToLower(rec.Get(f)), needle) {
			return true
		}
	}
	return false
}

// Edit stages a change to one field of the record at row. A later edit of
// the same cell replaces the earlier one.
func (s *SearchSession) Edit(row int, field domain.Field, value string) error {
	if row < 0 || row >= len(s.records) {
		return fmt.Errorf("edit row %d of %d: %w", row, len(s.records), ErrRowOutOfRange)
	}
	if _, err := domain.ParseField(string(field)); err != nil {
		return err
	}
	cells, ok := s.pending[row]
	if !ok {
		cells = map[domain.Field]string{}
		s.pending[row] = cells
	}
	cells[field] = value
	return nil
}

// Update merges the staged edits of every row whose current projectCost
// equals key, writes the whole list back and clears the buffer. Rows that
// share the key are all updated. Merged rows must still validate; otherwise
// nothing is written and the buffer is kept.
func (s *SearchSession) Update(ctx context.Context, key string) (n Notification, err error) {
	start := s.settings.now()
	defer func() { s.settings.observe(ctx, OpUpdate, start, err) }()

	merged := domain.CloneRecords(s.records)
	updated := make([]int, 0)
	for i, rec := range s.records {
		cells, ok := s.pending[i]
		if !ok || rec.ProjectCost != key {
			continue
		}
		for f, v := range cells {
			merged[i] = merged[i].With(f, v)
		}
		updated = append(updated, i)
	}
	for _, i := range updated {
		errs := domain.Validate(merged[i])
		for f, msg := range s.catalog.CheckLocation(merged[i]) {
			if !errs.Has(f) {
				errs[f] = msg
			}
		}
		if len(errs) > 0 {
			return Notification{}, &domain.ValidationError{Row: i, Fields: errs}
		}
	}
	if err := s.store.ReplaceAll(ctx, merged); err != nil {
		s.settings.logger.Error("update failed", zap.String("key", key), zap.Error(err))
		return Notification{}, fmt.Errorf("replace records: %w", err)
	}
	s.records = merged
	s.pending = map[int]map[domain.Field]string{}
	s.settings.logger.Info("records updated", zap.String("key", key), zap.Ints("rows", updated))
	return Notification{Message: MsgUpdated}, nil
}

// Records returns a copy of the loaded list.
func (s *SearchSession) Records() []domain.Subproject {
	return domain.CloneRecords(s.records)
}

// Pending returns a copy of the staged edits keyed by row.
func (s *SearchSession) Pending() map[int]map[domain.Field]string {
	out := make(map[int]map[domain.Field]string, len(s.pending))
	for row, cells := range s.pending {
		cp := make(map[domain.Field]string, len(cells))
		for f, v := range cells {
			cp[f] = v
		}
		out[row] = cp
	}
	return out
}

// PendingRows lists the rows with staged edits in ascending order.
func (s *SearchSession) PendingRows() []int {
	rows := make([]int, 0, len(s.pending))
	for row := range s.pending {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	return rows
}

// TotalCost sums the projectCost of rows. Costs that do not parse as a
// number are skipped and counted in the second result.
func TotalCost(rows []Row) (decimal.Decimal, int) {
	total := decimal.Zero
	skipped := 0
	for _, r := range rows {
		amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(r.Record.ProjectCost), ",", ""))
		if err != nil {
			skipped++
			continue
		}
		total = total.Add(amount)
	}
	return total, skipped
}
