package repository

import (
	"database/sql"
	"fmt"

	"BassTab/db"
)

// IndexRepository defines the interface for the lightweight slug index used
// by the listing endpoint and health reporting.
type IndexRepository interface {
	ListSlugs() ([]string, error)
	CountPairs() (int64, error)
}

// mysqlIndexRepository implements IndexRepository for MySQL.
type mysqlIndexRepository struct {
	DB *sql.DB
}

// NewMySQLIndexRepository creates a new instance of mysqlIndexRepository.
func NewMySQLIndexRepository() IndexRepository {
	return &mysqlIndexRepository{DB: db.DB}
}

// ListSlugs retrieves all pair slugs in stable order.
func (r *mysqlIndexRepository) ListSlugs() ([]string, error) {
	query := `SELECT slug FROM pairs ORDER BY slug ASC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pair slugs: %w", err)
	}
	defer rows.Close()

	slugs := make([]string, 0)
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan slug in ListSlugs: %w", err)
		}
		slugs = append(slugs, slug)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListSlugs: %w", err)
	}
	return slugs, nil
}

// CountPairs returns the number of catalog entries.
func (r *mysqlIndexRepository) CountPairs() (int64, error) {
	var count int64
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM pairs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pairs: %w", err)
	}
	return count, nil
}
