package collection

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"garage/internal/catalog"
	"garage/internal/tabular"
)

var masterRows = []tabular.Record{
	{ToyNumber: "HW01", Name: "Twin Mill", Year: "2020", Series: "Main", ImageURL: "twinmill.png"},
	{ToyNumber: "HW02", Name: "Bone Shaker", Year: "2020", Series: "Main", ImageURL: "boneshaker.png"},
	{ToyNumber: "HW03", Name: "Roadster", Year: "2021", Series: "Muscle", ImageURL: "roadster.png"},
}

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	dir := t.TempDir()

	master := tabular.NewStore(filepath.Join(dir, "master.csv"), nil)
	if err := master.Save(masterRows); err != nil {
		t.Fatalf("seed master: %v", err)
	}

	store := tabular.NewStore(filepath.Join(dir, "collection.csv"), nil)
	return NewLedger(store, catalog.NewIndex(master, nil), nil)
}

func TestMergeAddAccumulates(t *testing.T) {
	ledger := newLedger(t)

	if _, err := ledger.MergeAdd("HW01", 2); err != nil {
		t.Fatalf("first MergeAdd: %v", err)
	}
	row, err := ledger.MergeAdd("hw01", 3)
	if err != nil {
		t.Fatalf("second MergeAdd: %v", err)
	}
	if row.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", row.Quantity)
	}

	rows, total, err := ledger.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 merged row", len(rows))
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
}

func TestMergeAddCopiesMasterFields(t *testing.T) {
	ledger := newLedger(t)

	row, err := ledger.MergeAdd("hw02", 1)
	if err != nil {
		t.Fatalf("MergeAdd: %v", err)
	}
	if row.ToyNumber != "HW02" || row.Name != "Bone Shaker" || row.ImageURL != "boneshaker.png" {
		t.Errorf("row missing canonical master fields: %+v", row)
	}
}

func TestMergeAddRejectsNonPositiveQuantity(t *testing.T) {
	ledger := newLedger(t)

	for _, delta := range []int{0, -3} {
		if _, err := ledger.MergeAdd("HW01", delta); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("MergeAdd(HW01, %d) err = %v, want ErrInvalidQuantity", delta, err)
		}
	}
}

func TestMergeAddUnknownToyLeavesFileUntouched(t *testing.T) {
	ledger := newLedger(t)
	if _, err := ledger.MergeAdd("HW01", 1); err != nil {
		t.Fatalf("seed MergeAdd: %v", err)
	}
	before, err := os.ReadFile(ledger.Store().Path())
	if err != nil {
		t.Fatalf("read ledger file: %v", err)
	}

	if _, err := ledger.MergeAdd("ZZZ999", 1); !errors.Is(err, ErrUnknownToy) {
		t.Fatalf("err = %v, want ErrUnknownToy", err)
	}

	after, err := os.ReadFile(ledger.Store().Path())
	if err != nil {
		t.Fatalf("read ledger file: %v", err)
	}
	if string(before) != string(after) {
		t.Error("ledger file changed after rejected MergeAdd")
	}
}

func TestAdjustQuantityFloorsAtOne(t *testing.T) {
	ledger := newLedger(t)
	if _, err := ledger.MergeAdd("HW01", 3); err != nil {
		t.Fatalf("MergeAdd: %v", err)
	}

	newQuantity, err := ledger.AdjustQuantity("HW01", -100)
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if newQuantity != 1 {
		t.Errorf("newQuantity = %d, want floor of 1", newQuantity)
	}
}

func TestAdjustQuantityExactMatchOnly(t *testing.T) {
	ledger := newLedger(t)
	if _, err := ledger.MergeAdd("HW01", 1); err != nil {
		t.Fatalf("MergeAdd: %v", err)
	}

	if _, err := ledger.AdjustQuantity("hw01", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("lowercase lookup err = %v, want ErrNotFound (exact match)", err)
	}
	if _, err := ledger.AdjustQuantity("HW09", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("absent row err = %v, want ErrNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	ledger := newLedger(t)
	if _, err := ledger.MergeAdd("HW01", 1); err != nil {
		t.Fatalf("MergeAdd: %v", err)
	}

	removed, err := ledger.Remove("HW01")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Error("expected removal")
	}

	removed, err = ledger.Remove("HW01")
	if err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if removed {
		t.Error("second removal should report false")
	}

	rows, _, err := ledger.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty ledger, got %+v", rows)
	}
}

func TestListFilter(t *testing.T) {
	ledger := newLedger(t)
	for _, toy := range []string{"HW01", "HW02", "HW03"} {
		if _, err := ledger.MergeAdd(toy, 2); err != nil {
			t.Fatalf("MergeAdd(%s): %v", toy, err)
		}
	}

	rows, total, err := ledger.List("bone")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].ToyNumber != "HW02" {
		t.Errorf("filter by name: got %+v", rows)
	}
	if total != 2 {
		t.Errorf("filtered total = %d, want 2", total)
	}

	rows, total, err = ledger.List("hw0")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 3 || total != 6 {
		t.Errorf("filter by toy number: %d rows, total %d", len(rows), total)
	}
}

func TestMissingPreservesMasterOrder(t *testing.T) {
	ledger := newLedger(t)
	if _, err := ledger.MergeAdd("HW02", 1); err != nil {
		t.Fatalf("MergeAdd: %v", err)
	}

	missing, err := ledger.Missing()
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("got %d missing, want 2", len(missing))
	}
	if missing[0].ToyNumber != "HW01" || missing[1].ToyNumber != "HW03" {
		t.Errorf("missing order = %s, %s", missing[0].ToyNumber, missing[1].ToyNumber)
	}
}

func TestExportCanonicalFormat(t *testing.T) {
	ledger := newLedger(t)
	if _, err := ledger.MergeAdd("HW01", 2); err != nil {
		t.Fatalf("MergeAdd: %v", err)
	}

	data, err := ledger.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != strings.Join(tabular.Header, ",") {
		t.Errorf("export header = %q", lines[0])
	}
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "HW01,Twin Mill,2020,Main,twinmill.png,2") {
		t.Errorf("export rows = %q", lines[1:])
	}
}
