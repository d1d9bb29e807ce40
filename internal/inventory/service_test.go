package inventory_test

import (
	"errors"
	"testing"

	"garage/internal/inventory"
	"garage/internal/testsupport"
)

func newService(t *testing.T) *inventory.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	testsupport.SeedStore(t, cfg.Paths.MasterFile, testsupport.SampleCatalog())
	return inventory.NewService(cfg, nil)
}

func TestAddOneAndList(t *testing.T) {
	svc := newService(t)

	record, err := svc.AddOne("hw01", 2)
	if err != nil {
		t.Fatalf("AddOne: %v", err)
	}
	if record.ToyNumber != "HW01" || record.Quantity != 2 {
		t.Errorf("record = %+v", record)
	}

	rows, total, err := svc.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || total != 2 {
		t.Errorf("List = %d rows, total %d", len(rows), total)
	}
}

func TestAddOneUnknownToy(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddOne("ZZZ999", 1)
	if !errors.Is(err, inventory.ErrUnknownToy) {
		t.Errorf("err = %v, want ErrUnknownToy", err)
	}
	if !inventory.IsClientError(err) {
		t.Error("unknown toy should classify as client error")
	}
}

func TestAddBulkPartialSuccess(t *testing.T) {
	svc := newService(t)

	results, err := svc.AddBulk("2HW01 ZZZ999 x3 HW03")
	if err != nil {
		t.Fatalf("AddBulk: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	if results[0].Added == nil || results[0].Added.Quantity != 2 {
		t.Errorf("first entry = %+v", results[0])
	}
	if results[1].Err == nil || !errors.Is(results[1].Err, inventory.ErrUnknownToy) {
		t.Errorf("second entry err = %v, want ErrUnknownToy", results[1].Err)
	}
	if results[2].Added == nil || results[2].Added.Quantity != 3 {
		t.Errorf("third entry = %+v", results[2])
	}
}

func TestAddBulkNoEntries(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddBulk("--- !!!")
	if !errors.Is(err, inventory.ErrNoEntries) {
		t.Errorf("err = %v, want ErrNoEntries", err)
	}
}

func TestBulkRepeatsAccumulateThroughMerge(t *testing.T) {
	svc := newService(t)

	if _, err := svc.AddBulk("HW01 HW01 2HW01"); err != nil {
		t.Fatalf("AddBulk: %v", err)
	}

	rows, total, err := svc.List("HW01")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || total != 4 {
		t.Errorf("expected one merged row with quantity 4, got %d rows total %d", len(rows), total)
	}
}

func TestLookupInfo(t *testing.T) {
	svc := newService(t)

	record, err := svc.LookupInfo("HW02")
	if err != nil {
		t.Fatalf("LookupInfo: %v", err)
	}
	if record.Name != "Bone Shaker" {
		t.Errorf("record = %+v", record)
	}

	if _, err := svc.LookupInfo("NOPE"); !errors.Is(err, inventory.ErrUnknownToy) {
		t.Errorf("err = %v, want ErrUnknownToy", err)
	}
}

func TestAdjustAndDelete(t *testing.T) {
	svc := newService(t)
	if _, err := svc.AddOne("HW01", 3); err != nil {
		t.Fatalf("AddOne: %v", err)
	}

	quantity, err := svc.Adjust("HW01", -100)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if quantity != 1 {
		t.Errorf("quantity = %d, want 1", quantity)
	}

	if _, err := svc.Adjust("HW09", 1); !errors.Is(err, inventory.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	removed, err := svc.Delete("HW01")
	if err != nil || !removed {
		t.Errorf("Delete = %v, %v", removed, err)
	}
}

func TestMissingAndProgress(t *testing.T) {
	svc := newService(t)
	if _, err := svc.AddOne("HW01", 1); err != nil {
		t.Fatalf("AddOne: %v", err)
	}

	missing, err := svc.Missing()
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if len(missing) != 2 || missing[0].ToyNumber != "HW02" || missing[1].ToyNumber != "HW03" {
		t.Errorf("missing = %+v", missing)
	}

	groups, err := svc.Progress()
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %+v", groups)
	}
	if groups[0].Key != "Main 2020" || groups[0].Total != 2 || groups[0].Owned != 1 {
		t.Errorf("first group = %+v", groups[0])
	}
}

func TestForceReload(t *testing.T) {
	svc := newService(t)

	for _, name := range []string{"master", "collection", " Master "} {
		if err := svc.ForceReload(name); err != nil {
			t.Errorf("ForceReload(%q) = %v", name, err)
		}
	}

	err := svc.ForceReload("sideboard")
	if !errors.Is(err, inventory.ErrUnknownStore) {
		t.Errorf("err = %v, want ErrUnknownStore", err)
	}
	if !inventory.IsClientError(err) {
		t.Error("unknown store should classify as client error")
	}
}

func TestStatusReportsBothStores(t *testing.T) {
	svc := newService(t)
	if _, err := svc.AddOne("HW01", 1); err != nil {
		t.Fatalf("AddOne: %v", err)
	}

	status := svc.Status()
	if status.Master.RowCount != 3 {
		t.Errorf("master rows = %d, want 3", status.Master.RowCount)
	}
	if status.Collection.RowCount != 1 {
		t.Errorf("collection rows = %d, want 1", status.Collection.RowCount)
	}
}
