package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/siddarthanreddy/ministore/internal/models"
)

func (s *Store) CreateProduct(p *models.Product) error {
	query := `
		INSERT INTO products (name, description, price, image_url, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := s.DB.Exec(query, p.Name, p.Description, p.Price.String(), p.ImageURL)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	p.ID = int(id)
	return nil
}

// ListProducts returns all products, newest first.
func (s *Store) ListProducts() ([]models.Product, error) {
	query := `SELECT id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), created_at FROM products ORDER BY id DESC`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(id int) (*models.Product, error) {
	query := `SELECT id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), created_at FROM products WHERE id = ?`
	row := s.DB.QueryRow(query, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct writes name, description and price. The image is
// updated separately on upload; created_at is never touched.
func (s *Store) UpdateProduct(p *models.Product) error {
	query := `UPDATE products SET name = ?, description = ?, price = ? WHERE id = ?`
	res, err := s.DB.Exec(query, p.Name, p.Description, p.Price.String(), p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRow(res)
}

func (s *Store) UpdateProductImage(id int, filename string) error {
	query := `UPDATE products SET image_url = ? WHERE id = ?`
	res, err := s.DB.Exec(query, filename, id)
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteProduct(id int) error {
	query := `DELETE FROM products WHERE id = ?`
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var priceStr string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &priceStr, &p.ImageURL, &p.CreatedAt); err != nil {
		return p, err
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return p, fmt.Errorf("scan product %d price: %w", p.ID, err)
	}
	p.Price = price
	return p, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
