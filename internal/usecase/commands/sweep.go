package commands

import (
	"context"
	"log/slog"

	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/pkg/clock"
	"cabin-booking/internal/pkg/config"
	"cabin-booking/internal/pkg/errs"
	"cabin-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type SweepResult struct {
	ExpiredCount int         `json:"expired_count"`
	BookingIDs   []uuid.UUID `json:"booking_ids"`
}

type SweepCommands interface {
	Sweep(ctx context.Context) (*SweepResult, error)
}

type sweepCommandsImpl struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	batchSize int
	logger    *slog.Logger
}

func NewSweepCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.SweeperConfig, logger *slog.Logger) SweepCommands {
	return &sweepCommandsImpl{
		uow:       uow,
		clock:     clk,
		batchSize: cfg.BatchSize,
		logger:    logger,
	}
}

// Sweep expires every past-due pending hold it can find. Each hold gets its
// own transaction so one failing write cannot abort the rest of the batch,
// and each transition re-checks status under lock so racing with a live
// MarkPaid (payment wins) or another sweep run is harmless.
func (s *sweepCommandsImpl) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.clock.Now()

	ids, err := s.uow.CommandReads().DuePendingIDs(ctx, now, s.batchSize)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	result := &SweepResult{BookingIDs: make([]uuid.UUID, 0, len(ids))}
	for _, id := range ids {
		expired, err := s.expireOne(ctx, id)
		if err != nil {
			s.logger.Error("failed to expire hold", "booking_id", id, "error", err.Error())
			continue
		}
		if expired {
			result.ExpiredCount++
			result.BookingIDs = append(result.BookingIDs, id)
		}
	}
	return result, nil
}

func (s *sweepCommandsImpl) expireOne(ctx context.Context, id uuid.UUID) (bool, error) {
	var expired bool
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		changed, err := b.Expire(s.clock.Now())
		if err != nil {
			// Hold was extended or confirmed between the scan and the lock.
			return nil
		}
		if !changed {
			// Someone else finished it first; nothing to do.
			return nil
		}

		if err := tx.Bookings().Update(ctx, b, booking.StatusPending); err != nil {
			return err
		}
		expired = true
		return tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: id,
			Type:      shared.EventHoldExpired,
			Source:    shared.SourceSweep,
			Outcome:   booking.StatusExpired.String(),
		})
	})
	return expired, err
}
