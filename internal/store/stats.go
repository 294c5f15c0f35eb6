package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalProducts int
	TotalOrders   int
	Revenue       decimal.Decimal
	TopSellers    []SellerCount
}

// SellerCount aggregates sales by the snapshot product name, so it
// keeps counting correctly after a product is renamed or deleted.
type SellerCount struct {
	ProductName string
	UnitsSold   int
}

func (s *Store) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{Revenue: decimal.Zero}

	err := s.DB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&stats.TotalProducts)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	// Totals are stored as decimal strings; sum them in Go rather than
	// casting to REAL in SQL.
	rows, err := s.DB.Query(`SELECT total FROM orders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var totalStr string
		if err := rows.Scan(&totalStr); err != nil {
			return nil, err
		}
		total, err := decimal.NewFromString(totalStr)
		if err != nil {
			return nil, fmt.Errorf("stats: bad order total %q: %w", totalStr, err)
		}
		stats.Revenue = stats.Revenue.Add(total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sellerRows, err := s.DB.Query(`
		SELECT product_name, SUM(quantity) AS units
		FROM order_items
		GROUP BY product_name
		ORDER BY units DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer sellerRows.Close()
	for sellerRows.Next() {
		var sc SellerCount
		if err := sellerRows.Scan(&sc.ProductName, &sc.UnitsSold); err != nil {
			return nil, err
		}
		stats.TopSellers = append(stats.TopSellers, sc)
	}
	return stats, sellerRows.Err()
}
