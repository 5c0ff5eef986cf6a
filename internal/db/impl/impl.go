package impl

import (
	"database/sql"

	"github.com/huviapp/huvi/internal/config"
	"github.com/huviapp/huvi/internal/db"
	"github.com/huviapp/huvi/internal/state"
	"github.com/rs/zerolog/log"
)

type dbImpl struct {
	Config config.Configuration
	db     *sql.DB
}

func New(s state.State) db.DB {
	return &dbImpl{
		Config: s.Config,
		db:     s.DB,
	}
}

// HandleError takes a database error and returns a higher level error that hides the implementation details
// and can be more easily handled by the calling functions without doing type assertions, checking error codes and
// comparing to sentinel errors.
func (d *dbImpl) HandleError(err error) error {
	switch err {
	case nil:
		return nil
	case sql.ErrNoRows:
		return db.ErrNotFound
	default:
		log.Error().Err(err).Send()
		return db.ErrInternal
	}
}
