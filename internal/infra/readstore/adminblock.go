package readstore

import (
	"context"
	"time"

	"cabin-booking/internal/domain/availability"
	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/infra"
	"cabin-booking/internal/infra/db"

	"github.com/google/uuid"
)

type AdminBlockReadStore struct {
	q db.Queryer
}

func NewAdminBlockReadStore(q db.Queryer) *AdminBlockReadStore {
	return &AdminBlockReadStore{q: q}
}

func (s *AdminBlockReadStore) BlocksOverlapping(ctx context.Context, cabinID uuid.UUID, from, to time.Time) ([]availability.Block, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, start_date, end_date
		FROM admin_blocks
		WHERE cabin_id = $1
		  AND daterange(start_date, end_date, '[)') && daterange($2::date, $3::date, '[)')`,
		cabinID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load admin blocks", err)
	}
	defer rows.Close()

	var blocks []availability.Block
	for rows.Next() {
		var (
			id                 uuid.UUID
			startDate, endDate time.Time
		)
		if err := rows.Scan(&id, &startDate, &endDate); err != nil {
			return nil, infra.WrapRepoErr("failed to scan admin block", err)
		}
		stay, err := booking.NewStayRange(startDate, endDate)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt block range in storage", err)
		}
		blocks = append(blocks, availability.Block{ID: id, Stay: stay})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read admin blocks", err)
	}
	return blocks, nil
}
