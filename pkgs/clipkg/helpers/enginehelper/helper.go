package enginehelper

import (
	"github.com/WangWilly/stockPulse/pkgs/clipkg/config"
	"github.com/WangWilly/stockPulse/pkgs/commonpkg/clients/inferenceclient"
	"github.com/WangWilly/stockPulse/pkgs/commonpkg/database"
	"github.com/WangWilly/stockPulse/pkgs/credpool"
	"github.com/WangWilly/stockPulse/pkgs/embedpkg"
	"github.com/WangWilly/stockPulse/pkgs/enginepkg"
	"github.com/WangWilly/stockPulse/pkgs/scorepkg"
	"github.com/jmoiron/sqlx"
)

////////////////////////////////////////////////////////////////////////////////

// Helper owns everything a command needs to run the engine, plus the handles
// that must be closed on exit.
type Helper struct {
	Pool   *credpool.Pool
	Client *inferenceclient.Client
	Store  *embedpkg.Store
	Engine *enginepkg.Engine

	db *sqlx.DB
}

// New builds the full engine stack from the configuration. The cache table
// argument selects the embedding namespace (comments vs articles).
func New(conf *config.Config, cacheTable string, heuristic scorepkg.HeuristicConfig) (*Helper, error) {
	pool, err := conf.CredentialPool()
	if err != nil {
		return nil, err
	}

	client := inferenceclient.New(conf.Inference)

	var backend embedpkg.Backend
	var db *sqlx.DB
	if conf.Cache.SnapshotPath != "" {
		backend = embedpkg.NewFileBackend(conf.Cache.SnapshotPath)
	} else {
		db, err = database.ConnectWithConfig(conf.Database)
		if err != nil {
			return nil, err
		}
		backend, err = embedpkg.NewDBBackend(db, cacheTable)
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	store := embedpkg.NewStore(embedpkg.DEFAULT_DIMENSION, backend)

	scorer := scorepkg.New(client, heuristic, conf.Scorer)
	engine := enginepkg.New(pool, client, store, scorer, conf.Rank, conf.Scorer)

	return &Helper{
		Pool:   pool,
		Client: client,
		Store:  store,
		Engine: engine,
		db:     db,
	}, nil
}

// Close releases the database handle if one was opened.
func (h *Helper) Close() {
	if h.db != nil {
		h.db.Close()
	}
}
