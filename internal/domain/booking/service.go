package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/levy1403/quanlychuoi-sub000/internal/domain/catalog"
	"github.com/levy1403/quanlychuoi-sub000/internal/domain/customer"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/logger"
)

const publishTimeout = 2 * time.Second

// CatalogReader reads services inside the booking transaction.
type CatalogReader interface {
	GetByIDsTx(ctx context.Context, q sqlx.QueryerContext, ids []int64) ([]catalog.Service, error)
}

// CustomerResolver finds or creates the booking's customer inside the transaction.
type CustomerResolver interface {
	ResolveTx(ctx context.Context, q sqlx.QueryerContext, phone string) (*customer.Customer, error)
}

// EventPublisher delivers booking lifecycle events after commit.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Service is the booking transaction manager.
type Service struct {
	repo      Repository
	catalog   CatalogReader
	customers CustomerResolver
	events    EventPublisher
	now       func() time.Time
}

// NewService creates booking service
func NewService(repo Repository, catalog CatalogReader, customers CustomerResolver, events EventPublisher) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		customers: customers,
		events:    events,
		now:       time.Now,
	}
}

// CreateInput carries a new booking. BranchID 0 means absent.
type CreateInput struct {
	Phone           string
	AppointmentDate time.Time
	ServiceIDs      []int64
	BranchID        int64
	EmployeeID      *int64
	Notes           *string
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
// A non-nil ServiceIDs replaces every line and re-prices at current catalog prices.
type UpdateInput struct {
	AppointmentDate *time.Time
	EmployeeID      *int64
	BranchID        *int64
	Notes           *string
	Status          *Status
	ServiceIDs      *[]int64
}

// Create books the services for the customer owning in.Phone. The booking row
// and all of its lines are written in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Booking, error) {
	ids := uniqueIDs(in.ServiceIDs)
	if len(ids) == 0 {
		return nil, ErrServicesRequired
	}
	if in.BranchID <= 0 {
		return nil, ErrBranchRequired
	}
	if in.Phone == "" {
		return nil, ErrPhoneRequired
	}

	tx, err := s.repo.BeginTxx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create booking: %w", err)
	}
	defer tx.Rollback()

	cust, err := s.customers.ResolveTx(ctx, tx, in.Phone)
	if err != nil {
		return nil, err
	}

	lines, total, duration, err := s.priceServices(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		CustomerID:        cust.ID,
		EmployeeID:        in.EmployeeID,
		BranchID:          in.BranchID,
		AppointmentDate:   in.AppointmentDate,
		Status:            StatusPending,
		TotalPrice:        total,
		EstimatedDuration: duration,
		Notes:             in.Notes,
	}
	if err := s.repo.InsertTx(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := s.repo.InsertLinesTx(ctx, tx, b.ID, lines); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create booking: %w", err)
	}
	b.Lines = lines

	logger.FromContext(ctx).Info().
		Int64("booking_id", b.ID).
		Int64("customer_id", b.CustomerID).
		Str("total_price", b.TotalPrice.String()).
		Int("services", len(lines)).
		Msg("Booking created")

	s.publish(ctx, EventCreated, b, "")
	return b, nil
}

// Update applies a partial update under a row lock.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Booking, error) {
	var ids []int64
	if in.ServiceIDs != nil {
		ids = uniqueIDs(*in.ServiceIDs)
		if len(ids) == 0 {
			return nil, ErrServicesRequired
		}
	}
	if in.BranchID != nil && *in.BranchID <= 0 {
		return nil, ErrBranchRequired
	}

	tx, err := s.repo.BeginTxx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update booking: %w", err)
	}
	defer tx.Rollback()

	b, err := s.repo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	previous := b.Status

	if in.AppointmentDate != nil {
		b.AppointmentDate = *in.AppointmentDate
	}
	if in.EmployeeID != nil {
		b.EmployeeID = in.EmployeeID
	}
	if in.BranchID != nil {
		b.BranchID = *in.BranchID
	}
	if in.Notes != nil {
		b.Notes = in.Notes
	}
	if in.Status != nil && *in.Status != b.Status {
		if err := ValidateTransition(b.Status, *in.Status); err != nil {
			return nil, err
		}
		b.applyStatus(*in.Status, s.now())
	}

	var lines []Line
	if ids != nil {
		// Every line is re-priced at the current catalog price, including
		// services the booking already had. Duration is left as booked.
		lines, b.TotalPrice, _, err = s.priceServices(ctx, tx, ids)
		if err != nil {
			return nil, err
		}
		if err := s.repo.DeleteLinesTx(ctx, tx, b.ID); err != nil {
			return nil, err
		}
		if err := s.repo.InsertLinesTx(ctx, tx, b.ID, lines); err != nil {
			return nil, err
		}
	} else if lines, err = s.repo.LinesTx(ctx, tx, b.ID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTx(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update booking: %w", err)
	}
	b.Lines = lines

	s.publish(ctx, EventUpdated, b, previous)
	return b, nil
}

// ChangeStatus moves the booking along the status machine.
func (s *Service) ChangeStatus(ctx context.Context, id int64, next Status) (*Booking, error) {
	if !next.IsValid() {
		return nil, ErrInvalidStatus
	}

	tx, err := s.repo.BeginTxx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin change status: %w", err)
	}
	defer tx.Rollback()

	b, err := s.repo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	previous := b.Status

	if err := ValidateTransition(b.Status, next); err != nil {
		logger.FromContext(ctx).Warn().
			Int64("booking_id", id).
			Str("from", string(b.Status)).
			Str("to", string(next)).
			Msg("Rejected status transition")
		return nil, err
	}
	b.applyStatus(next, s.now())

	if err := s.repo.UpdateTx(ctx, tx, b); err != nil {
		return nil, err
	}
	if b.Lines, err = s.repo.LinesTx(ctx, tx, b.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit change status: %w", err)
	}

	s.publish(ctx, EventStatusChanged, b, previous)
	return b, nil
}

// Delete hard-deletes a cancelled booking together with its lines.
func (s *Service) Delete(ctx context.Context, id int64) error {
	tx, err := s.repo.BeginTxx(ctx)
	if err != nil {
		return fmt.Errorf("begin delete booking: %w", err)
	}
	defer tx.Rollback()

	b, err := s.repo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if b.Status != StatusCancelled {
		return ErrBookingNotCancelled
	}

	if err := s.repo.DeleteTx(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete booking: %w", err)
	}

	s.publish(ctx, EventDeleted, b, "")
	return nil
}

// GetByID returns the booking with its lines.
func (s *Service) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of bookings and the total match count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Booking, int, error) {
	return s.repo.List(ctx, filter)
}

// priceServices reads ids within tx and snapshots them into lines.
func (s *Service) priceServices(ctx context.Context, tx *sqlx.Tx, ids []int64) ([]Line, decimal.Decimal, int, error) {
	services, err := s.catalog.GetByIDsTx(ctx, tx, ids)
	if err != nil {
		return nil, decimal.Zero, 0, err
	}
	if missing := catalog.MissingIDs(ids, services); len(missing) > 0 {
		return nil, decimal.Zero, 0, fmt.Errorf("%w: %v", ErrServiceNotFound, missing)
	}

	lines, total, duration := priceLines(services)
	return lines, total, duration, nil
}

func (s *Service) publish(ctx context.Context, eventType string, b *Booking, previous Status) {
	if s.events == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.PublishJSON(ctx, eventType, NewEvent(eventType, b, previous, s.now())); err != nil {
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("event", eventType).
			Int64("booking_id", b.ID).
			Msg("Failed to publish booking event")
	}
}
