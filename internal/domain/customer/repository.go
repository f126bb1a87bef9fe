package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/password"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/validator"
)

const queryTimeout = 3 * time.Second

const (
	selectByPhone = `
		SELECT id, phone, full_name, email, role, created_at
		FROM users
		WHERE phone = $1
	`

	// The unique index on phone makes this the single point of arbitration
	// between concurrent creators of the same customer.
	insertCustomer = `
		INSERT INTO users (phone, full_name, email, password_hash, role)
		VALUES ($1, $1, $1, $2, 'customer')
		ON CONFLICT (phone) DO NOTHING
		RETURNING id, phone, full_name, email, role, created_at
	`
)

// Resolver finds or creates customers by phone.
type Resolver struct {
	db *sqlx.DB

	// unusableHash produces the password marker for new customers.
	unusableHash func() (string, error)
}

func NewResolver(db *sqlx.DB) *Resolver {
	return &Resolver{db: db, unusableHash: password.Unusable}
}

// ResolveOrCreate returns the customer owning phone, creating it when absent.
func (r *Resolver) ResolveOrCreate(ctx context.Context, phone string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.ResolveTx(ctx, r.db, phone)
}

// ResolveTx resolves phone against q, normally the booking transaction.
func (r *Resolver) ResolveTx(ctx context.Context, q sqlx.QueryerContext, phone string) (*Customer, error) {
	phone, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	c, err := r.findByPhone(ctx, q, phone)
	if err != nil || c != nil {
		return c, err
	}

	hash, err := r.unusableHash()
	if err != nil {
		return nil, fmt.Errorf("password marker: %w", err)
	}

	var created Customer
	err = sqlx.GetContext(ctx, q, &created, insertCustomer, phone, hash)
	switch {
	case err == nil:
		log.Info().Int64("customer_id", created.ID).Msg("Customer created from booking")
		return &created, nil
	case errors.Is(err, sql.ErrNoRows):
		// Lost the race: another transaction committed this phone first.
	case isUniqueViolation(err):
		return nil, fmt.Errorf("%w: %s", ErrCustomerResolutionConflict, constraintName(err))
	default:
		return nil, fmt.Errorf("insert customer: %w", err)
	}

	c, err = r.findByPhone(ctx, q, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerResolutionConflict
	}
	return c, nil
}

func (r *Resolver) findByPhone(ctx context.Context, q sqlx.QueryerContext, phone string) (*Customer, error) {
	var c Customer
	err := sqlx.GetContext(ctx, q, &c, selectByPhone, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select customer by phone: %w", err)
	}
	return &c, nil
}

// NormalizePhone strips separators and validates the result.
func NormalizePhone(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrPhoneRequired
	}
	if !validator.IsPhone(phone) {
		return "", ErrInvalidPhone
	}
	return validator.NormalizePhone(phone), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func constraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
