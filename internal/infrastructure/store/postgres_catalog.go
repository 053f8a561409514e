package store

import (
	"context"
	"database/sql"

	"github.com/BoostersSCM/barcode-inventory/internal/catalog"
)

// PostgresCatalogStore reads the product master from PostgreSQL.
type PostgresCatalogStore struct {
	db *sql.DB
}

func NewPostgresCatalogStore(db *sql.DB) *PostgresCatalogStore {
	return &PostgresCatalogStore{db: db}
}

func (s *PostgresCatalogStore) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	return s.findBy(ctx, "code", code)
}

func (s *PostgresCatalogStore) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	return s.findBy(ctx, "barcode", barcode)
}

func (s *PostgresCatalogStore) findBy(ctx context.Context, column, value string) (*catalog.Product, error) {
	var p catalog.Product
	err := s.db.QueryRowContext(ctx,
		`SELECT code, name, barcode FROM products WHERE `+column+` = $1 AND active`,
		value,
	).Scan(&p.Code, &p.Name, &p.Barcode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &p, nil
}

func (s *PostgresCatalogStore) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, barcode FROM products WHERE active ORDER BY code ASC`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.Code, &p.Name, &p.Barcode); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
