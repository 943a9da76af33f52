package pgtestutil

import (
	"strings"
	"testing"
)

func TestReplaceDBInDSN(t *testing.T) {
	t.Parallel()

	out, err := ReplaceDBInDSN(BaseDSN, "testdb_foo")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "/testdb_foo?") {
		t.Fatalf("db not replaced: %s", out)
	}
	if !strings.Contains(out, "sslmode=disable") {
		t.Fatalf("query lost: %s", out)
	}

	_, err = ReplaceDBInDSN("host=localhost dbname=x", "y")
	if err == nil {
		t.Fatal("expected error for keyword dsn")
	}
}

func TestSanitizeForPgIdent(t *testing.T) {
	t.Parallel()

	got := sanitizeForPgIdent("TestWallets/Get-For Update:case")
	if got != "testwallets_get_for_update_case" {
		t.Fatalf("unexpected ident: %s", got)
	}

	long := sanitizeForPgIdent(strings.Repeat("a", 100))
	if len(long) != 63 {
		t.Fatalf("want 63 chars, got %d", len(long))
	}
}
