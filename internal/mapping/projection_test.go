package mapping

import (
	"strings"
	"testing"
)

type countingScanner struct {
	dests int
}

func (s *countingScanner) Scan(dest ...any) error {
	s.dests = len(dest)
	return nil
}

func TestProjectionIncludesPayrollSystem(t *testing.T) {
	if got := projection.Column("PayrollSystem"); got != "m.payroll_system" {
		t.Errorf("Column(PayrollSystem) = %q, want %q", got, "m.payroll_system")
	}
}

// Every projected column must have a scan destination, in order.
func TestScanConfigMatchesProjection(t *testing.T) {
	s := &countingScanner{}
	if _, err := scanConfig(s); err != nil {
		t.Fatalf("scanConfig: %v", err)
	}
	if want := len(projection.ColumnList()); s.dests != want {
		t.Errorf("scanConfig scans %d destinations, projection has %d columns", s.dests, want)
	}
}

func TestProjectionColumnOrder(t *testing.T) {
	cols := projection.ColumnList()
	idIdx, psIdx, statusIdx := -1, -1, -1
	for i, c := range cols {
		switch {
		case strings.HasSuffix(c, ".id") && idIdx == -1:
			idIdx = i
		case strings.HasSuffix(c, ".payroll_system"):
			psIdx = i
		case strings.HasSuffix(c, ".status"):
			statusIdx = i
		}
	}
	if psIdx == -1 {
		t.Fatal("payroll_system missing from projection")
	}
	if !(idIdx < psIdx && psIdx < statusIdx) {
		t.Errorf("unexpected column order: id=%d payroll_system=%d status=%d", idIdx, psIdx, statusIdx)
	}
}
