package readstore

import (
	"context"

	"cabin-booking/internal/infra"
	"cabin-booking/internal/infra/db"

	"github.com/google/uuid"
)

type CabinReadStore struct {
	q db.Queryer
}

func NewCabinReadStore(q db.Queryer) *CabinReadStore {
	return &CabinReadStore{q: q}
}

func (s *CabinReadStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cabins WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check cabin existence", err)
	}
	return exists, nil
}
