// Package store persists azimuth corrections in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/devskill-org/sunazimuth/azimuth"
	"github.com/devskill-org/sunazimuth/ephemeris"
)

// ErrNoDatabase is returned by a Store without a connection.
var ErrNoDatabase = errors.New("database connection not available")

const schema = `
CREATE TABLE IF NOT EXISTS azimuth_results (
	id                 UUID PRIMARY KEY,
	sweep_id           UUID,
	date               DATE NOT NULL,
	event              SMALLINT NOT NULL,
	latitude           DOUBLE PRECISION NOT NULL,
	longitude          DOUBLE PRECISION NOT NULL,
	altitude           DOUBLE PRECISION NOT NULL,
	pressure           DOUBLE PRECISION NOT NULL,
	temperature        DOUBLE PRECISION NOT NULL,
	kp                 DOUBLE PRECISION NOT NULL,
	reference_latitude DOUBLE PRECISION NOT NULL,
	reference_azimuth  DOUBLE PRECISION NOT NULL,
	d_latitude         DOUBLE PRECISION NOT NULL,
	d_longitude        DOUBLE PRECISION NOT NULL,
	d_altitude         DOUBLE PRECISION NOT NULL,
	d_temperature      DOUBLE PRECISION NOT NULL,
	d_pressure         DOUBLE PRECISION NOT NULL,
	dh                 DOUBLE PRECISION NOT NULL,
	k                  DOUBLE PRECISION NOT NULL,
	d_azimuth          DOUBLE PRECISION NOT NULL,
	azimuth_top        DOUBLE PRECISION NOT NULL,
	azimuth_bot        DOUBLE PRECISION NOT NULL,
	d_azimuth_age      DOUBLE PRECISION NOT NULL,
	d_kp_top           DOUBLE PRECISION NOT NULL,
	d_kp_bot           DOUBLE PRECISION NOT NULL,
	kp_fraction        DOUBLE PRECISION,
	at_azimuth         DOUBLE PRECISION NOT NULL,
	event_time         TIMESTAMPTZ NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (date, event, latitude, longitude, altitude, kp)
)`

// Record is one stored correction with the inputs that produced it.
type Record struct {
	ID          uuid.UUID             `json:"id"`
	SweepID     uuid.UUID             `json:"sweep_id,omitzero"`
	Date        time.Time             `json:"date"`
	Position    ephemeris.GeoPosition `json:"position"`
	Pressure    float64               `json:"pressure"`
	Temperature float64               `json:"temperature"`
	Result      azimuth.Result        `json:"result"`
	CreatedAt   time.Time             `json:"created_at,omitzero"`
}

// Store reads and writes Records.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Open connects to connString and creates the results table if needed.
func Open(ctx context.Context, connString string, logger *log.Logger) (*Store, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := New(db, logger)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database.
func New(db *sql.DB, logger *log.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the results table.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const upsert = `
	INSERT INTO azimuth_results (
		id, sweep_id, date, event, latitude, longitude, altitude, pressure, temperature, kp,
		reference_latitude, reference_azimuth,
		d_latitude, d_longitude, d_altitude, d_temperature, d_pressure, dh, k, d_azimuth,
		azimuth_top, azimuth_bot, d_azimuth_age, d_kp_top, d_kp_bot, kp_fraction, at_azimuth, event_time
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		$21, $22, $23, $24, $25, $26, $27, $28)
	ON CONFLICT (date, event, latitude, longitude, altitude, kp) DO UPDATE SET
		sweep_id = EXCLUDED.sweep_id,
		pressure = EXCLUDED.pressure,
		temperature = EXCLUDED.temperature,
		reference_latitude = EXCLUDED.reference_latitude,
		reference_azimuth = EXCLUDED.reference_azimuth,
		d_latitude = EXCLUDED.d_latitude,
		d_longitude = EXCLUDED.d_longitude,
		d_altitude = EXCLUDED.d_altitude,
		d_temperature = EXCLUDED.d_temperature,
		d_pressure = EXCLUDED.d_pressure,
		dh = EXCLUDED.dh,
		k = EXCLUDED.k,
		d_azimuth = EXCLUDED.d_azimuth,
		azimuth_top = EXCLUDED.azimuth_top,
		azimuth_bot = EXCLUDED.azimuth_bot,
		d_azimuth_age = EXCLUDED.d_azimuth_age,
		d_kp_top = EXCLUDED.d_kp_top,
		d_kp_bot = EXCLUDED.d_kp_bot,
		kp_fraction = EXCLUDED.kp_fraction,
		at_azimuth = EXCLUDED.at_azimuth,
		event_time = EXCLUDED.event_time
	RETURNING id`

// SaveResults upserts records in one transaction. Records without an ID get a
// new one; the stored ID is written back, so a replaced row keeps its ID.
func (s *Store) SaveResults(ctx context.Context, records []*Record) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		if err := stmt.QueryRowContext(ctx, rec.args()...).Scan(&rec.ID); err != nil {
			return fmt.Errorf("failed to save result for %s: %w", rec.Date.Format(time.DateOnly), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logf("Saved %d azimuth results", len(records))
	return nil
}

// SaveSweep stores the days of a sweep that have a result, tagged with a new
// sweep ID.
func (s *Store) SaveSweep(ctx context.Context, req azimuth.SweepRequest, points []azimuth.SweepPoint) (uuid.UUID, error) {
	sweepID := uuid.New()
	records := make([]*Record, 0, len(points))
	for _, p := range points {
		if p.Result == nil {
			continue
		}
		records = append(records, &Record{
			SweepID:     sweepID,
			Date:        p.Date,
			Position:    req.Position,
			Pressure:    req.Pressure,
			Temperature: req.Temperature,
			Result:      *p.Result,
		})
	}
	if err := s.SaveResults(ctx, records); err != nil {
		return uuid.Nil, err
	}
	return sweepID, nil
}

// Query selects stored results.
type Query struct {
	Position ephemeris.GeoPosition
	Event    ephemeris.EventType
	From, To time.Time
}

// LoadResults returns the results for q ordered by date.
func (s *Store) LoadResults(ctx context.Context, q Query) ([]Record, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, sweep_id, date, event, latitude, longitude, altitude, pressure, temperature, kp,
			reference_latitude, reference_azimuth,
			d_latitude, d_longitude, d_altitude, d_temperature, d_pressure, dh, k, d_azimuth,
			azimuth_top, azimuth_bot, d_azimuth_age, d_kp_top, d_kp_bot, kp_fraction, at_azimuth, event_time,
			created_at
		FROM azimuth_results
		WHERE latitude = $1 AND longitude = $2 AND altitude = $3 AND event = $4
			AND date >= $5 AND date <= $6
		ORDER BY date ASC, kp ASC
	`, q.Position.Latitude, q.Position.Longitude, q.Position.Altitude, int(q.Event),
		q.From.Format(time.DateOnly), q.To.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec      Record
			sweepID  uuid.NullUUID
			event    int
			fraction sql.NullFloat64
			r        = &rec.Result
		)
		err := rows.Scan(
			&rec.ID, &sweepID, &rec.Date, &event,
			&rec.Position.Latitude, &rec.Position.Longitude, &rec.Position.Altitude,
			&rec.Pressure, &rec.Temperature, &r.KP,
			&r.ReferenceLatitude, &r.ReferenceAzimuth,
			&r.DLatitude, &r.DLongitude, &r.DAltitude, &r.DTemperature, &r.DPressure, &r.Dh, &r.K, &r.DAzimuth,
			&r.AzimuthTop, &r.AzimuthBot, &r.DAzimuthAge, &r.DKPTop, &r.DKPBot, &fraction, &r.At, &r.EventTime,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if sweepID.Valid {
			rec.SweepID = sweepID.UUID
		}
		r.Event = ephemeris.EventType(event)
		r.KPFraction = -1
		if fraction.Valid {
			r.KPFraction = fraction.Float64
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	s.logf("Loaded %d azimuth results", len(records))
	return records, nil
}

// DeleteBefore removes results dated before t and returns how many went.
func (s *Store) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	if s.db == nil {
		return 0, ErrNoDatabase
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM azimuth_results WHERE date < $1`, t.Format(time.DateOnly))
	if err != nil {
		return 0, fmt.Errorf("failed to delete results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted results: %w", err)
	}
	s.logf("Deleted %d azimuth results before %s", n, t.Format(time.DateOnly))
	return n, nil
}

func (rec *Record) args() []any {
	r := rec.Result
	var sweepID uuid.NullUUID
	if rec.SweepID != uuid.Nil {
		sweepID = uuid.NullUUID{UUID: rec.SweepID, Valid: true}
	}
	return []any{
		rec.ID, sweepID, rec.Date.Format(time.DateOnly), int(r.Event),
		rec.Position.Latitude, rec.Position.Longitude, rec.Position.Altitude,
		rec.Pressure, rec.Temperature, r.KP,
		r.ReferenceLatitude, r.ReferenceAzimuth,
		r.DLatitude, r.DLongitude, r.DAltitude, r.DTemperature, r.DPressure, r.Dh, r.K, r.DAzimuth,
		r.AzimuthTop, r.AzimuthBot, r.DAzimuthAge, r.DKPTop, r.DKPBot, nullableFloat(r.KPFraction), r.At, r.EventTime,
	}
}

// nullableFloat stores values Postgres cannot compare as NULL.
func nullableFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
