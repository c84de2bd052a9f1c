package db

import (
	"database/sql"
	"fmt"
	"log"

	"BassTab/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
// The pairs table mirrors the catalog contract: one row per track-pair page,
// with the tab's bar markers stored as a JSON column.
func InitDB() error {
	if err := createPairsTable(); err != nil {
		return err
	}
	log.Println("Database initialization completed.")
	return nil
}

func createPairsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS pairs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		slug VARCHAR(150) NOT NULL UNIQUE,
		track_title VARCHAR(200) NOT NULL,
		track_artist VARCHAR(100) NOT NULL,
		track_year SMALLINT NOT NULL,
		track_youtube_id VARCHAR(11) NOT NULL,
		track_spotify_id VARCHAR(22),
		original_title VARCHAR(200) NOT NULL,
		original_artist VARCHAR(100) NOT NULL,
		original_year SMALLINT NOT NULL,
		original_youtube_id VARCHAR(11) NOT NULL,
		original_spotify_id VARCHAR(22),
		is_bass_sample BOOLEAN NOT NULL DEFAULT TRUE,
		sample_type VARCHAR(20) NOT NULL,
		track_start_sec DOUBLE NOT NULL,
		original_start_sec DOUBLE NOT NULL,
		notes TEXT,
		tuning VARCHAR(10) NOT NULL,
		difficulty SMALLINT NOT NULL,
		tab_text TEXT NOT NULL,
		bars JSON,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_pairs_track_youtube_id (track_youtube_id),
		INDEX idx_pairs_difficulty (difficulty),
		INDEX idx_pairs_is_bass_sample (is_bass_sample)
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create pairs table: %w", err)
	}
	return nil
}
