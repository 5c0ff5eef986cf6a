package state

import (
	"database/sql"

	"github.com/huviapp/huvi/internal/config"
)

type State struct {
	DB     *sql.DB
	Config config.Configuration
}
