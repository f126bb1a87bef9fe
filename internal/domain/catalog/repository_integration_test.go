package catalog_test

import (
	"context"
	"testing"

	"github.com/levy1403/quanlychuoi-sub000/internal/domain/catalog"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/testdb"
)

func TestReader_GetByIDs(t *testing.T) {
	db := testdb.Open(t)
	r := catalog.NewReader(db)

	cut := testdb.Service(t, db, "Cắt tóc", "100000.00", 30)
	wash := testdb.Service(t, db, "Gội đầu", "50000.00", 20)

	got, err := r.GetByIDs(context.Background(), []int64{wash, cut, -1})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 2 || got[0].ID != wash || got[1].ID != cut {
		t.Fatalf("expected [%d %d] in request order, got %+v", wash, cut, got)
	}
	if got[1].Price.String() != "100000" || got[1].EstimatedTime != 30 {
		t.Fatalf("unexpected service %+v", got[1])
	}

	missing := catalog.MissingIDs([]int64{wash, cut, -1}, got)
	if len(missing) != 1 || missing[0] != -1 {
		t.Fatalf("expected missing [-1], got %v", missing)
	}
}
