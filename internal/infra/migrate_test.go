package infra

import "testing"

func TestSplitSQLDropsComments(t *testing.T) {
	in := `-- header
CREATE TABLE a (id INT);

  -- indented comment
CREATE INDEX i ON a (id);
`
	stmts := splitSQL(stripSQLComments(in))
	if len(stmts) != 2 {
		t.Fatalf("stmts = %q", stmts)
	}
	if stmts[0] != "CREATE TABLE a (id INT)" || stmts[1] != "CREATE INDEX i ON a (id)" {
		t.Fatalf("stmts = %q", stmts)
	}
}
