package embedpkg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/WangWilly/stockPulse/pkgs/commonpkg/database"
	"github.com/jmoiron/sqlx"
)

////////////////////////////////////////////////////////////////////////////////

// DBBackend persists cache entries in a key-value table with per-key upsert,
// so a save touches one row instead of rewriting the whole cache. This is the
// default backend; sqlite and postgres both work through the same statements.
type DBBackend struct {
	db    *sqlx.DB
	table string
}

// NewDBBackend creates a database backend over the given namespace table,
// creating the table if needed.
func NewDBBackend(db *sqlx.DB, table string) (*DBBackend, error) {
	if err := database.CreateEmbeddingTable(db, table); err != nil {
		return nil, err
	}
	return &DBBackend{db: db, table: table}, nil
}

////////////////////////////////////////////////////////////////////////////////

type cacheRow struct {
	TextKey string `db:"text_key"`
	Vector  string `db:"vector"`
}

// Load reads all entries of the namespace.
func (b *DBBackend) Load(ctx context.Context) (map[string][]float64, error) {
	var rows []cacheRow
	query := fmt.Sprintf("SELECT text_key, vector FROM %s", b.table)
	if err := b.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load embedding cache: %w", err)
	}

	entries := make(map[string][]float64, len(rows))
	for _, row := range rows {
		var vector []float64
		if err := json.Unmarshal([]byte(row.Vector), &vector); err != nil {
			// Skip corrupt rows; the store recomputes them on demand.
			continue
		}
		entries[row.TextKey] = vector
	}
	return entries, nil
}

// Save upserts the changed entry only; the snapshot is ignored.
func (b *DBBackend) Save(ctx context.Context, key string, vector []float64, _ map[string][]float64) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to marshal vector: %w", err)
	}

	query := b.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (text_key, vector, dim, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (text_key) DO UPDATE SET
			vector = excluded.vector,
			dim = excluded.dim,
			updated_at = excluded.updated_at
	`, b.table))

	if _, err := b.db.ExecContext(ctx, query, key, string(data), len(vector), time.Now()); err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	return nil
}

// Clear deletes all entries of the namespace.
func (b *DBBackend) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", b.table)
	if _, err := b.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear embedding cache: %w", err)
	}
	return nil
}
