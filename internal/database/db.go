package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"energytracker/pkg/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS energy_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		appliance TEXT NOT NULL,
		energy_kwh REAL NOT NULL,
		cost REAL NOT NULL,
		duration_hours REAL NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_user ON energy_events(user_id);
	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON energy_events(timestamp);

	CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		prediction_date TEXT NOT NULL,
		predicted_kwh REAL NOT NULL,
		predicted_cost REAL NOT NULL,
		confidence REAL,
		prediction_type TEXT NOT NULL DEFAULT 'daily',
		model_version TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_predictions_user ON predictions(user_id);
	CREATE INDEX IF NOT EXISTS idx_predictions_date ON predictions(prediction_date);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertEvent inserts an energy usage event
func (db *DB) InsertEvent(ev *models.EnergyEvent) error {
	query := `
	INSERT INTO energy_events (user_id, timestamp, appliance, energy_kwh, cost, duration_hours, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err := db.conn.Exec(query,
		ev.UserID,
		ev.Timestamp.Format(timestampLayout),
		ev.Appliance,
		ev.EnergyKWh,
		ev.Cost,
		ev.DurationHours,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("inserting energy event: %w", err)
	}

	return nil
}

// ListEvents retrieves a user's events in ascending timestamp order, with
// optional inclusive date-range bounds
func (db *DB) ListEvents(userID int, since, until *time.Time) ([]models.EnergyEvent, error) {
	query := `
	SELECT id, user_id, timestamp, appliance, energy_kwh, cost, duration_hours
	FROM energy_events
	WHERE user_id = ?
	`
	params := []any{userID}

	if since != nil {
		query += " AND timestamp >= ?"
		params = append(params, since.Format(timestampLayout))
	}
	if until != nil {
		query += " AND timestamp <= ?"
		params = append(params, until.Format(timestampLayout))
	}
	query += " ORDER BY timestamp ASC"

	rows, err := db.conn.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("querying energy events: %w", err)
	}
	defer rows.Close()

	var results []models.EnergyEvent
	for rows.Next() {
		var ev models.EnergyEvent
		var tsStr string

		if err := rows.Scan(&ev.ID, &ev.UserID, &tsStr, &ev.Appliance, &ev.EnergyKWh, &ev.Cost, &ev.DurationHours); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		ev.Timestamp, err = time.Parse(timestampLayout, tsStr)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}

		results = append(results, ev)
	}

	return results, rows.Err()
}

// EventCount returns the number of stored events for a user
func (db *DB) EventCount(userID int) (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM energy_events WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}

// ApplianceSummary returns per-appliance totals for a user, highest
// consumption first
func (db *DB) ApplianceSummary(userID int) ([]models.ApplianceSummary, error) {
	query := `
	SELECT appliance, SUM(energy_kwh), SUM(cost), COUNT(*)
	FROM energy_events
	WHERE user_id = ?
	GROUP BY appliance
	ORDER BY SUM(energy_kwh) DESC
	`

	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying appliance summary: %w", err)
	}
	defer rows.Close()

	var results []models.ApplianceSummary
	for rows.Next() {
		var s models.ApplianceSummary
		if err := rows.Scan(&s.Appliance, &s.TotalEnergy, &s.TotalCost, &s.UseCount); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, s)
	}

	return results, rows.Err()
}

// SavePrediction persists one forecast point
func (db *DB) SavePrediction(p *models.Prediction) error {
	query := `
	INSERT INTO predictions (user_id, prediction_date, predicted_kwh, predicted_cost, confidence, prediction_type, model_version, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	predType := p.PredictionType
	if predType == "" {
		predType = "daily"
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err := db.conn.Exec(query,
		p.UserID,
		p.PredictionDate.Format("2006-01-02"),
		p.PredictedKWh,
		p.PredictedCost,
		p.Confidence,
		predType,
		p.ModelVersion,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("saving prediction: %w", err)
	}

	return nil
}

// ListPredictions retrieves stored predictions for a user, newest first
func (db *DB) ListPredictions(userID int, predType string, limit int) ([]models.Prediction, error) {
	query := `
	SELECT id, user_id, prediction_date, predicted_kwh, predicted_cost, confidence, prediction_type, model_version, created_at
	FROM predictions
	WHERE user_id = ? AND prediction_type = ?
	ORDER BY prediction_date DESC
	`
	params := []any{userID, predType}

	if limit > 0 {
		query += " LIMIT ?"
		params = append(params, limit)
	}

	rows, err := db.conn.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer rows.Close()

	var results []models.Prediction
	for rows.Next() {
		var p models.Prediction
		var dateStr, createdStr string
		var confidence sql.NullFloat64
		var version sql.NullString

		if err := rows.Scan(&p.ID, &p.UserID, &dateStr, &p.PredictedKWh, &p.PredictedCost, &confidence, &p.PredictionType, &version, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		p.PredictionDate, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing prediction date: %w", err)
		}
		if createdStr != "" {
			p.CreatedAt, err = time.Parse(time.RFC3339, createdStr)
			if err != nil {
				return nil, fmt.Errorf("parsing created_at: %w", err)
			}
		}
		if confidence.Valid {
			p.Confidence = confidence.Float64
		}
		if version.Valid {
			p.ModelVersion = version.String
		}

		results = append(results, p)
	}

	return results, rows.Err()
}
