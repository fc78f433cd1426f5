package testutil

import (
	"context"
	"database/sql/driver"
	"testing"
)

func TestStubUpsertAndFilteredSelect(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()
	upsert := "INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload"
	for _, payload := range []string{"[]", `[{"projectCost":"500"}]`} {
		if _, err := conn.ExecContext(ctx, upsert, []driver.NamedValue{{Value: "formData"}, {Value: []byte(payload)}}); err != nil {
			t.Fatalf("exec: %v", err)
		}
	}
	conn.Put("state", []string{"bucket", "payload"}, "other", []byte("[]"))
	if got := len(conn.Rows("state")); got != 2 {
		t.Fatalf("expected 2 rows after upsert, got %d", got)
	}
	rows, err := conn.QueryContext(ctx, "SELECT payload FROM state WHERE bucket = $1", []driver.NamedValue{{Value: "formData"}})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer func() { _ = rows.Close() }()
	dest := make([]driver.Value, 1)
	if err := rows.Next(dest); err != nil {
		t.Fatalf("next: %v", err)
	}
	if string(dest[0].([]byte)) != `[{"projectCost":"500"}]` {
		t.Fatalf("unexpected payload %s", dest[0])
	}
	if err := rows.Next(dest); err == nil {
		t.Fatalf("expected a single matching row")
	}
}

func TestStubFailureToggles(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()
	conn.FailPing, conn.FailExec, conn.FailQuery, conn.FailBegin = true, true, true, true
	if err := conn.Ping(ctx); err == nil {
		t.Fatalf("expected ping failure")
	}
	if _, err := conn.ExecContext(ctx, "CREATE TABLE x (a TEXT)", nil); err == nil {
		t.Fatalf("expected exec failure")
	}
	if _, err := conn.QueryContext(ctx, "SELECT a FROM x", nil); err == nil {
		t.Fatalf("expected query failure")
	}
	if _, err := conn.Begin(); err == nil {
		t.Fatalf("expected begin failure")
	}
	if _, err := parseSelect("DELETE FROM x"); err == nil {
		t.Fatalf("expected parse failure")
	}
	if _, _, err := parseInsert("INSERT INTO broken"); err == nil {
		t.Fatalf("expected insert parse failure")
	}
}
