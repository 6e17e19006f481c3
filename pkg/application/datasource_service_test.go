package application_test

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/sqlscore/pkg/application"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

func strPtr(s string) *string { return &s }

func TestDataSourceService_AddAndList(t *testing.T) {
	repo := &MockRepo{}
	svc := application.NewDataSourceService(repo)

	ds, err := svc.Add("  shop ", validConn)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ds.ID == "" {
		t.Error("expected generated ID")
	}
	if ds.Name != "shop" {
		t.Errorf("Name = %q, want trimmed", ds.Name)
	}

	list, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != ds.ID {
		t.Errorf("List = %+v", list)
	}
	if repo.Saves != 1 {
		t.Errorf("Saves = %d, want 1", repo.Saves)
	}
}

func TestDataSourceService_AddRejects(t *testing.T) {
	repo := &MockRepo{}
	svc := application.NewDataSourceService(repo)
	if _, err := svc.Add("shop", validConn); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := svc.Add("SHOP", validConn); !errors.Is(err, datasource.ErrDuplicateName) {
		t.Errorf("duplicate name: got %v", err)
	}

	bad := validConn
	bad.URL = "jdbc:postgresql://db/shop"
	var ve *datasource.ValidationError
	if _, err := svc.Add("other", bad); !errors.As(err, &ve) || ve.Field != "url" {
		t.Errorf("bad url: got %v", err)
	}
	if repo.Saves != 1 {
		t.Errorf("failed adds must not save, Saves = %d", repo.Saves)
	}
}

func TestDataSourceService_Resolve(t *testing.T) {
	svc := application.NewDataSourceService(&MockRepo{})
	ds, _ := svc.Add("shop", validConn)

	for _, key := range []string{ds.ID, "shop", "Shop"} {
		got, err := svc.Resolve(key)
		if err != nil || got.ID != ds.ID {
			t.Errorf("Resolve(%q) = %+v, %v", key, got, err)
		}
	}
	for _, key := range []string{"", "  ", "missing"} {
		if _, err := svc.Resolve(key); !errors.Is(err, datasource.ErrNotFound) {
			t.Errorf("Resolve(%q): expected ErrNotFound, got %v", key, err)
		}
	}
}

func TestDataSourceService_Update(t *testing.T) {
	svc := application.NewDataSourceService(&MockRepo{})
	ds, _ := svc.Add("shop", validConn)
	_, _ = svc.Add("billing", validConn)

	updated, err := svc.Update("shop", application.DataSourcePatch{
		Name:     strPtr("shop-replica"),
		Password: strPtr("rotated"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != ds.ID || updated.Name != "shop-replica" || updated.Password != "rotated" || updated.URL != validConn.URL {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.Update("shop-replica", application.DataSourcePatch{Name: strPtr("billing")}); !errors.Is(err, datasource.ErrDuplicateName) {
		t.Errorf("rename onto existing: got %v", err)
	}
	if _, err := svc.Update("nope", application.DataSourcePatch{}); !errors.Is(err, datasource.ErrNotFound) {
		t.Errorf("missing: got %v", err)
	}
}

func TestDataSourceService_Remove(t *testing.T) {
	svc := application.NewDataSourceService(&MockRepo{})
	_, _ = svc.Add("shop", validConn)

	removed, err := svc.Remove("shop")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.Name != "shop" {
		t.Errorf("removed = %+v", removed)
	}
	if _, err := svc.Remove("shop"); !errors.Is(err, datasource.ErrNotFound) {
		t.Errorf("second remove: got %v", err)
	}
}

func TestDataSourceService_SelectAndLast(t *testing.T) {
	svc := application.NewDataSourceService(&MockRepo{})

	if _, err := svc.Last(); !errors.Is(err, datasource.ErrNoConnection) {
		t.Errorf("Last on empty catalog: got %v", err)
	}

	_, _ = svc.Add("shop", validConn)
	if _, err := svc.Select("shop"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	last, err := svc.Last()
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last != validConn {
		t.Errorf("Last = %+v", last)
	}
}

func TestDataSourceService_RememberSkipsUnchanged(t *testing.T) {
	repo := &MockRepo{}
	svc := application.NewDataSourceService(repo)

	if err := svc.Remember(validConn); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if err := svc.Remember(validConn); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if repo.Saves != 1 {
		t.Errorf("Saves = %d, want 1", repo.Saves)
	}
}

func TestDataSourceService_StoreErrors(t *testing.T) {
	boom := errors.New("disk full")

	svc := application.NewDataSourceService(&MockRepo{LoadError: boom})
	if _, err := svc.List(); !errors.Is(err, boom) {
		t.Errorf("List: got %v", err)
	}

	svc = application.NewDataSourceService(&MockRepo{SaveError: boom})
	if _, err := svc.Add("shop", validConn); !errors.Is(err, boom) {
		t.Errorf("Add: got %v", err)
	}
}
