package components

import (
	"cabin-booking/internal/infra/db"
	"cabin-booking/internal/infra/readstore"
	"cabin-booking/internal/infra/uow"
	"cabin-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewQueryer,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewCabinReadStore,
			fx.As(new(queries.CabinReadStore)),
		),
		fx.Annotate(
			readstore.NewAdminBlockReadStore,
			fx.As(new(queries.AdminBlockReadStore)),
		),
	),
)

func NewQueryer(pool *pgxpool.Pool) db.Queryer {
	return pool
}
