package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "store.csv"), nil, opts...)
}

func TestRowsCreatesFileWithHeader(t *testing.T) {
	store := newTestStore(t)

	rows, _, err := store.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty snapshot, got %d rows", len(rows))
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read created file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != strings.Join(Header, ",") {
		t.Errorf("created file = %q, want header only", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store := newTestStore(t)
	in := []Record{
		{ToyNumber: "HW01", Name: "Twin Mill", Year: "2020", Series: "Main", ImageURL: "a.png", Quantity: 2},
		{ToyNumber: "HW02", Name: "Bone Shaker", Year: "2021", Series: "Muscle", ImageURL: "b.png"},
	}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	store2 := NewStore(store.Path(), nil)
	out, _, err := store2.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d rows, want 2", len(out))
	}
	if out[0] != in[0] || out[1] != in[1] {
		t.Errorf("round trip mismatch: got %+v", out)
	}
}

func TestSaveReplacesSnapshotWithoutReread(t *testing.T) {
	store := newTestStore(t)
	if _, _, err := store.Rows(); err != nil {
		t.Fatalf("initial Rows: %v", err)
	}

	rows := []Record{{ToyNumber: "HW01", Name: "Twin Mill", Quantity: 1}}
	if err := store.Save(rows); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, _, err := store.Rows()
	if err != nil {
		t.Fatalf("Rows after Save: %v", err)
	}
	if len(got) != 1 || got[0].ToyNumber != "HW01" {
		t.Errorf("snapshot after save = %+v", got)
	}
}

func TestRowsIdempotentWithoutFileChange(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save([]Record{{ToyNumber: "HW01"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, gen1, err := store.Rows()
	if err != nil {
		t.Fatalf("first Rows: %v", err)
	}
	_, gen2, err := store.Rows()
	if err != nil {
		t.Fatalf("second Rows: %v", err)
	}
	if gen1 != gen2 {
		t.Errorf("generation moved from %d to %d without a file change", gen1, gen2)
	}
}

func TestRowsDetectsExternalModification(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save([]Record{{ToyNumber: "HW01"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	_, gen1, err := store.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}

	content := strings.Join(Header, ",") + "\nHW02,Roadster,2022,Main,c.png,4\n"
	if err := os.WriteFile(store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("external write: %v", err)
	}
	// Force a distinct modification time; coarse filesystem clocks could
	// otherwise hide the rewrite.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(store.Path(), future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	rows, gen2, err := store.Rows()
	if err != nil {
		t.Fatalf("Rows after external write: %v", err)
	}
	if gen2 == gen1 {
		t.Error("expected generation bump after external modification")
	}
	if len(rows) != 1 || rows[0].ToyNumber != "HW02" || rows[0].Quantity != 4 {
		t.Errorf("reloaded rows = %+v", rows)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save([]Record{{ToyNumber: "HW01"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	_, gen1, _ := store.Rows()

	store.Invalidate()

	_, gen2, err := store.Rows()
	if err != nil {
		t.Fatalf("Rows after Invalidate: %v", err)
	}
	if gen2 == gen1 {
		t.Error("expected a fresh read after Invalidate")
	}
}

func TestLoadTrimsFieldsAndDefaultsQuantity(t *testing.T) {
	store := newTestStore(t)
	content := strings.Join(Header, ",") + "\n  HW01 , Twin Mill ,2020, Main , a.png ,\nHW02,Bone Shaker,2021,Muscle,b.png,junk\n"
	if err := os.WriteFile(store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rows, _, err := store.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if rows[0].ToyNumber != "HW01" || rows[0].Name != "Twin Mill" || rows[0].Series != "Main" {
		t.Errorf("fields not trimmed: %+v", rows[0])
	}
	if rows[0].Quantity != 0 {
		t.Errorf("blank quantity = %d, want 0", rows[0].Quantity)
	}
	if rows[1].Quantity != 0 {
		t.Errorf("unparsable quantity = %d, want 0", rows[1].Quantity)
	}
}

func TestSelfHealingHeaderRecovery(t *testing.T) {
	store := newTestStore(t)
	// Reordered columns plus an unknown one.
	content := "name,toy_number,notes,year,series,image_url,quantity\nTwin Mill,HW01,ignore,2020,Main,a.png,3\n"
	if err := os.WriteFile(store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rows, _, err := store.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := Record{ToyNumber: "HW01", Name: "Twin Mill", Year: "2020", Series: "Main", ImageURL: "a.png", Quantity: 3}
	if rows[0] != want {
		t.Errorf("recovered row = %+v, want %+v", rows[0], want)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read healed file: %v", err)
	}
	if !strings.HasPrefix(string(data), strings.Join(Header, ",")) {
		t.Errorf("file not rewritten with canonical header: %q", string(data))
	}
}

func TestSelfHealingHeaderRecoveryWithLockFile(t *testing.T) {
	store := newTestStore(t, WithLockFile(filepath.Join(t.TempDir(), "store.lock")))
	content := "name,toy_number\nTwin Mill,HW01\n"
	if err := os.WriteFile(store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rows, _, err := store.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ToyNumber != "HW01" {
		t.Fatalf("recovered rows = %+v", rows)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read healed file: %v", err)
	}
	if !strings.HasPrefix(string(data), strings.Join(Header, ",")) {
		t.Errorf("file not rewritten with canonical header: %q", string(data))
	}
}

func TestUpdateHealsHeaderUnderLockFile(t *testing.T) {
	// The refresh inside Update can trigger a header rewrite while the
	// advisory lock is already held, which must not release it early.
	store := newTestStore(t, WithLockFile(filepath.Join(t.TempDir(), "store.lock")))
	content := "name,toy_number\nTwin Mill,HW01\n"
	if err := os.WriteFile(store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	err := store.Update(func(rows []Record) ([]Record, bool, error) {
		rows = append(rows, Record{ToyNumber: "HW02", Quantity: 1})
		return rows, true, nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fresh := NewStore(store.Path(), nil)
	rows, _, err := fresh.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 2 || rows[0].ToyNumber != "HW01" || rows[1].ToyNumber != "HW02" {
		t.Errorf("persisted rows = %+v", rows)
	}
}

func TestUnrecognizableHeaderIsSchemaError(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte("foo,bar\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, _, err := store.Rows()
	if !errors.Is(err, ErrSchema) {
		t.Errorf("err = %v, want ErrSchema", err)
	}
}

func TestUpdateSkipsSaveWhenUnchanged(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save([]Record{{ToyNumber: "HW01"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	before, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	info, _ := os.Stat(store.Path())

	err = store.Update(func(rows []Record) ([]Record, bool, error) {
		return rows, false, nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	after, _ := os.ReadFile(store.Path())
	if string(before) != string(after) {
		t.Error("file changed despite changed=false")
	}
	if info2, _ := os.Stat(store.Path()); !info2.ModTime().Equal(info.ModTime()) {
		t.Error("mod time changed despite changed=false")
	}
}

func TestUpdateMutatesAndPersists(t *testing.T) {
	store := newTestStore(t, WithLockFile(filepath.Join(t.TempDir(), "store.lock")))
	err := store.Update(func(rows []Record) ([]Record, bool, error) {
		rows = append(rows, Record{ToyNumber: "HW05", Quantity: 2})
		return rows, true, nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fresh := NewStore(store.Path(), nil)
	rows, _, err := fresh.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ToyNumber != "HW05" || rows[0].Quantity != 2 {
		t.Errorf("persisted rows = %+v", rows)
	}
}

func TestUpdateErrorLeavesFileUntouched(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save([]Record{{ToyNumber: "HW01", Quantity: 1}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	before, _ := os.ReadFile(store.Path())

	wantErr := errors.New("nope")
	err := store.Update(func(rows []Record) ([]Record, bool, error) {
		return nil, true, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	after, _ := os.ReadFile(store.Path())
	if string(before) != string(after) {
		t.Error("file changed despite callback error")
	}
}

func TestStatusReportsCacheState(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save([]Record{{ToyNumber: "HW01"}, {ToyNumber: "HW02"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	status := store.Status()
	if !status.Loaded {
		t.Error("expected Loaded after save")
	}
	if status.RowCount != 2 {
		t.Errorf("RowCount = %d, want 2", status.RowCount)
	}
	if status.ModTime.IsZero() {
		t.Error("expected recorded mod time")
	}
}

func TestSameItem(t *testing.T) {
	a := Record{ToyNumber: "hw01", ImageURL: "a.png"}
	b := Record{ToyNumber: "HW01", ImageURL: "a.png"}
	c := Record{ToyNumber: "HW01", ImageURL: "b.png"}
	if !a.SameItem(b) {
		t.Error("case-insensitive toy number should match")
	}
	if a.SameItem(c) {
		t.Error("different image URLs are distinct items")
	}
}
