package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second

	pgUndefinedTable = "42P01"
)

var ErrSchemaMissing = errors.New("products table does not exist")

// PostgresSource reads the collection from a products table. Row order is
// the display order.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// OpenPostgres opens a pgx-backed database/sql handle and checks it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	err = withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return db, nil
}

func (s *PostgresSource) Load(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, description, brand, price, rating, reviews, in_stock,
			       COALESCE(image, ''), COALESCE(link, '')
			FROM products
			ORDER BY position ASC, id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var (
				p  Product
				id string
			)
			if err := rows.Scan(
				&id, &p.Name, &p.Description, &p.Brand, &p.Price,
				&p.Rating, &p.Reviews, &p.InStock, &p.Image, &p.Link,
			); err != nil {
				return err
			}
			p.ID = ProductID(id)
			out = append(out, p)
		}
		return rows.Err()
	})

	if isUndefinedTable(err) {
		return nil, ErrSchemaMissing
	}
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}
