package customer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/levy1403/quanlychuoi-sub000/internal/domain/customer"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/testdb"
)

func TestResolveOrCreate_Idempotent(t *testing.T) {
	db := testdb.Open(t)
	r := customer.NewResolver(db)
	ctx := context.Background()

	phone := testdb.Phone()
	first, err := r.ResolveOrCreate(ctx, phone)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Role != customer.RoleCustomer || first.FullName != phone || first.Email != phone {
		t.Fatalf("unexpected new customer %+v", first)
	}

	// Same phone written with separators resolves to the same row.
	spaced := phone[:4] + " " + phone[4:7] + "-" + phone[7:]
	second, err := r.ResolveOrCreate(ctx, spaced)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected customer %d, got %d", first.ID, second.ID)
	}

	var hash string
	if err := db.Get(&hash, `SELECT password_hash FROM users WHERE id = $1`, first.ID); err != nil {
		t.Fatalf("read hash: %v", err)
	}
	if hash == "" {
		t.Fatal("expected a password marker")
	}
}

func TestResolveOrCreate_EmailTaken(t *testing.T) {
	db := testdb.Open(t)
	r := customer.NewResolver(db)

	phone := testdb.Phone()
	testdb.MustInsert(t, db,
		`INSERT INTO users (phone, full_name, email, password_hash, role)
		 VALUES ($1, 'Other', $2, 'x', 'customer') RETURNING id`,
		testdb.Phone(), phone)

	_, err := r.ResolveOrCreate(context.Background(), phone)
	if !errors.Is(err, customer.ErrCustomerResolutionConflict) {
		t.Fatalf("expected ErrCustomerResolutionConflict, got %v", err)
	}
}
