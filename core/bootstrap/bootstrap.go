// Package bootstrap initializes infrastructure in order: logger first, then
// the configured session store backend with its migrations.
package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/dvaldes/warouter/core/config"
	coredatabase "github.com/dvaldes/warouter/core/database"
	"github.com/dvaldes/warouter/core/logger"
	"github.com/dvaldes/warouter/core/session"
	corevalkey "github.com/dvaldes/warouter/core/valkey"
)

// Options control the bootstrap pipeline. The function fields exist so tests
// can substitute infrastructure; nil means the real implementation.
type Options struct {
	Config *coreconfig.Config

	LoggerInit    func(*coreconfig.Config) error
	Connect       func(coreconfig.DatabaseConfig) (*sqlx.DB, error)
	Migrate       func(coreconfig.DatabaseConfig) error
	ConnectValkey func(coreconfig.ValkeyConfig) (*corevalkey.Client, error)
}

// Result exposes the initialized session store and owns the backing
// connections until Close.
type Result struct {
	Store session.Store

	db     *sqlx.DB
	valkey *corevalkey.Client
}

// Close releases the store's backing connections.
func (r *Result) Close() {
	if r == nil {
		return
	}
	if r.db != nil {
		_ = r.db.Close()
	}
	if r.valkey != nil {
		r.valkey.Close()
	}
}

// Run initializes the logger and builds the session store selected by config.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	switch opts.Config.Session.Store {
	case coreconfig.StorePostgres:
		connect := opts.Connect
		if connect == nil {
			connect = coredatabase.Connect
		}
		db, err := connect(opts.Config.Database)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
		}
		migrate := opts.Migrate
		if migrate == nil {
			migrate = coredatabase.RunMigrations
		}
		if err := migrate(opts.Config.Database); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
		}
		return &Result{Store: session.NewPostgresStore(db), db: db}, nil

	case coreconfig.StoreValkey:
		connectValkey := opts.ConnectValkey
		if connectValkey == nil {
			connectValkey = corevalkey.NewClient
		}
		client, err := connectValkey(opts.Config.Valkey)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: valkey initialization failed: %w", err)
		}
		return &Result{Store: session.NewValkeyStore(client), valkey: client}, nil

	default:
		return &Result{Store: session.NewMemoryStore()}, nil
	}
}
