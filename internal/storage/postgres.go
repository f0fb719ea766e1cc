package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/lucedivina/storefront/internal/types"
)

// migration is a versioned schema change applied at startup.
type migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "initial_schema",
		SQL: `
			CREATE TABLE IF NOT EXISTS products (
				id TEXT PRIMARY KEY,
				kind VARCHAR(20) NOT NULL,
				title TEXT NOT NULL,
				author TEXT NOT NULL DEFAULT '',
				code VARCHAR(40) NOT NULL DEFAULT '',
				price NUMERIC(10,2) NOT NULL DEFAULT 0,
				language VARCHAR(40) NOT NULL DEFAULT '',
				format VARCHAR(60) NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				images JSONB NOT NULL DEFAULT '[]',
				source_url TEXT NOT NULL DEFAULT '',
				categories JSONB NOT NULL DEFAULT '[]',
				tags JSONB NOT NULL DEFAULT '[]',
				inventory INT NOT NULL DEFAULT 0,
				status VARCHAR(20) NOT NULL DEFAULT 'in_stock',
				rating NUMERIC(3,1) NOT NULL DEFAULT 0,
				reviews INT NOT NULL DEFAULT 0,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),

				CHECK (kind IN ('book', 'music')),
				CHECK (status IN ('in_stock', 'out_of_stock'))
			);

			CREATE INDEX IF NOT EXISTS idx_products_kind ON products(kind);

			CREATE TABLE IF NOT EXISTS site_settings (
				id VARCHAR(20) PRIMARY KEY,
				settings JSONB NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);
		`,
	},
}

// PostgresStore persists the catalog and settings in PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore connects, pings, and applies pending migrations.
func NewPostgresStore(dsn string, logger *slog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	s := &PostgresStore{db: db, logger: logger.With("component", "postgres_store")}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	var current sql.NullInt64
	if err := s.db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}

	for _, m := range migrations {
		if current.Valid && int64(m.Version) <= current.Int64 {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
			m.Version, m.Name); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		s.logger.Info("migration applied", "version", m.Version, "name", m.Name)
	}
	return nil
}

const productColumns = `id, kind, title, author, code, price, language, format,
	description, images, source_url, categories, tags, inventory, status,
	rating, reviews, updated_at`

func (s *PostgresStore) ListProducts(ctx context.Context) ([]types.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products`)
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Op: "list", Err: err}
	}
	defer rows.Close()

	out := []types.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, &types.StorageError{Backend: s.Name(), Op: "list", Err: err}
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Op: "list", Err: err}
	}
	return out, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrProductNotFound
	}
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Op: "get", Err: err}
	}
	return p, nil
}

func (s *PostgresStore) PutProduct(ctx context.Context, p *types.Product) error {
	images, _ := json.Marshal(stringsOrEmpty(p.Images))
	categories, _ := json.Marshal(stringsOrEmpty(p.Categories))
	tags, _ := json.Marshal(stringsOrEmpty(p.Tags))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind, title = EXCLUDED.title,
			author = EXCLUDED.author, code = EXCLUDED.code,
			price = EXCLUDED.price, language = EXCLUDED.language,
			format = EXCLUDED.format, description = EXCLUDED.description,
			images = EXCLUDED.images, source_url = EXCLUDED.source_url,
			categories = EXCLUDED.categories, tags = EXCLUDED.tags,
			inventory = EXCLUDED.inventory, status = EXCLUDED.status,
			rating = EXCLUDED.rating, reviews = EXCLUDED.reviews,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.Kind, p.Title, p.Author, p.Code, p.Price, p.Language, p.Format,
		p.Description, images, p.SourceURL, categories, tags, p.Inventory,
		p.Status, p.Rating, p.Reviews, p.UpdatedAt)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "put", Err: err}
	}
	return nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrProductNotFound
	}
	return nil
}

func (s *PostgresStore) ReplaceProducts(ctx context.Context, products []types.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "replace", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "replace", Err: err}
	}
	for i := range products {
		p := &products[i]
		images, _ := json.Marshal(stringsOrEmpty(p.Images))
		categories, _ := json.Marshal(stringsOrEmpty(p.Categories))
		tags, _ := json.Marshal(stringsOrEmpty(p.Tags))
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (`+productColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
			p.ID, p.Kind, p.Title, p.Author, p.Code, p.Price, p.Language,
			p.Format, p.Description, images, p.SourceURL, categories, tags,
			p.Inventory, p.Status, p.Rating, p.Reviews, p.UpdatedAt)
		if err != nil {
			return &types.StorageError{Backend: s.Name(), Op: "replace", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "replace", Err: err}
	}
	return nil
}

func (s *PostgresStore) LoadSettings(ctx context.Context) (*types.SiteSettings, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT settings FROM site_settings WHERE id = $1`, settingsDocID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Op: "load_settings", Err: err}
	}

	var settings types.SiteSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Op: "load_settings", Err: err}
	}
	return &settings, nil
}

func (s *PostgresStore) SaveSettings(ctx context.Context, settings *types.SiteSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "save_settings", Err: err}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO site_settings (id, settings, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET
			settings = EXCLUDED.settings, updated_at = NOW()`,
		settingsDocID, raw)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Op: "save_settings", Err: err}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.logger.Info("postgres store closing")
	return s.db.Close()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*types.Product, error) {
	var p types.Product
	var images, categories, tags []byte
	var updatedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.Kind, &p.Title, &p.Author, &p.Code, &p.Price,
		&p.Language, &p.Format, &p.Description, &images, &p.SourceURL,
		&categories, &tags, &p.Inventory, &p.Status, &p.Rating,
		&p.Reviews, &updatedAt)
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{
		{images, &p.Images},
		{categories, &p.Categories},
		{tags, &p.Tags},
	} {
		if len(pair.raw) > 0 {
			if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
				return nil, fmt.Errorf("decode product list column: %w", err)
			}
		}
	}
	return &p, nil
}

// stringsOrEmpty keeps JSONB columns as [] instead of null.
func stringsOrEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
