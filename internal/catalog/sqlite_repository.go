package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/lamasat/storefront/internal/domain"
)

// SQLiteRepository stores the product catalog in a sqlite database. Rows are
// converted into typed domain.Product values before leaving this package.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

const productColumns = `id, name, price, category, stock, image_url, is_new, is_featured, created_at, updated_at`

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY name`, productColumns)
	return r.queryProducts(ctx, query)
}

func (r *SQLiteRepository) GetByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE category = ? ORDER BY name`, productColumns)
	return r.queryProducts(ctx, query, string(category))
}

func (r *SQLiteRepository) GetFeatured(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE is_featured = 1 ORDER BY name`, productColumns)
	return r.queryProducts(ctx, query)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ?`, productColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	query := `INSERT INTO products (name, price, category, stock, image_url, is_new, is_featured, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Price, string(p.Category), p.Stock, p.ImageURL, p.IsNew, p.IsFeatured)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Product{}, fmt.Errorf("read inserted id: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *SQLiteRepository) Update(ctx context.Context, p domain.Product) error {
	query := `UPDATE products
	          SET name = ?, price = ?, category = ?, stock = ?, image_url = ?, is_new = ?, is_featured = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Price, string(p.Category), p.Stock, p.ImageURL, p.IsNew, p.IsFeatured, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRowAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRowAffected(res)
}

func (r *SQLiteRepository) SetFeatured(ctx context.Context, id int64, featured bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_featured = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, featured, id)
	if err != nil {
		return fmt.Errorf("set featured: %w", err)
	}
	return requireRowAffected(res)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var category string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&category,
		&p.Stock,
		&p.ImageURL,
		&p.IsNew,
		&p.IsFeatured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	p.Category = domain.Category(category)
	return p, nil
}

func requireRowAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
