package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

const selectServices = `
	SELECT id, name, price, estimated_time, is_active
	FROM services
	WHERE id = ANY($1)
`

// Reader looks up services by id set.
type Reader struct {
	db *sqlx.DB
}

func NewReader(db *sqlx.DB) *Reader {
	return &Reader{db: db}
}

// GetByIDs returns the services found for ids, in the order of ids.
// Unknown ids are skipped; callers compare lengths to detect them.
func (r *Reader) GetByIDs(ctx context.Context, ids []int64) ([]Service, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.GetByIDsTx(ctx, r.db, ids)
}

// GetByIDsTx is GetByIDs against q, normally an open transaction so that the
// prices read are the ones written into booking lines.
func (r *Reader) GetByIDsTx(ctx context.Context, q sqlx.QueryerContext, ids []int64) ([]Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []Service
	if err := sqlx.SelectContext(ctx, q, &found, selectServices, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("select services: %w", err)
	}
	return OrderByIDs(ids, found), nil
}

// OrderByIDs arranges services to follow ids. Ids without a service are dropped.
func OrderByIDs(ids []int64, services []Service) []Service {
	byID := make(map[int64]Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	ordered := make([]Service, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// MissingIDs returns the ids that have no matching service.
func MissingIDs(ids []int64, services []Service) []int64 {
	have := make(map[int64]struct{}, len(services))
	for _, s := range services {
		have[s.ID] = struct{}{}
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
