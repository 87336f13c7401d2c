// Package sqlite persists devices, criteria and compliance results in an
// embedded sqlite database.
//
// Staleness bookkeeping lives here, outside the evaluation engine: when a
// criterion changes, its stored results are marked stale and excluded from
// compliance decisions until re-evaluated.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"rf-compliance/core/compliance"
	"rf-compliance/core/criteria"
	"rf-compliance/core/device"
	"rf-compliance/internal/errors"
)

// Store wraps the results database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Storage("failed to open results database", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.Storage("failed to enable foreign keys", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Storage("failed to apply schema", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDevice inserts or replaces a device record.
func (s *Store) SaveDevice(ctx context.Context, d *device.Device) error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.EnsureID()

	inputPorts, _ := json.Marshal(d.Ports.InputPorts)
	outputPorts, _ := json.Marshal(d.Ports.OutputPorts)
	tests, _ := json.Marshal(d.TestsPerformed)

	// Upsert, never REPLACE: a REPLACE deletes the old row first, and
	// with foreign keys on that cascade would wipe the device's criteria
	// and their results.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO devices (
			id, name, description, part_number,
			operational_freq_min_ghz, operational_freq_max_ghz,
			wideband_freq_min_ghz, wideband_freq_max_ghz,
			multi_gain_mode, tests_performed, input_ports, output_ports
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			part_number = excluded.part_number,
			operational_freq_min_ghz = excluded.operational_freq_min_ghz,
			operational_freq_max_ghz = excluded.operational_freq_max_ghz,
			wideband_freq_min_ghz = excluded.wideband_freq_min_ghz,
			wideband_freq_max_ghz = excluded.wideband_freq_max_ghz,
			multi_gain_mode = excluded.multi_gain_mode,
			tests_performed = excluded.tests_performed,
			input_ports = excluded.input_ports,
			output_ports = excluded.output_ports`,
		d.ID.String(), d.Name, d.Description, d.PartNumber,
		d.OperationalFreqMinGHz, d.OperationalFreqMaxGHz,
		d.WidebandFreqMinGHz, d.WidebandFreqMaxGHz,
		d.MultiGainMode, string(tests), string(inputPorts), string(outputPorts),
	)
	if err != nil {
		return errors.Storage("failed to save device", err)
	}
	return nil
}

// GetDevice loads a device by id.
func (s *Store) GetDevice(ctx context.Context, id uuid.UUID) (*device.Device, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, part_number,
		       operational_freq_min_ghz, operational_freq_max_ghz,
		       wideband_freq_min_ghz, wideband_freq_max_ghz,
		       multi_gain_mode, tests_performed, input_ports, output_ports
		FROM devices WHERE id = ?`, id.String())
	return scanDevice(row)
}

// ListDevices returns all devices ordered by name.
func (s *Store) ListDevices(ctx context.Context) ([]*device.Device, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, part_number,
		       operational_freq_min_ghz, operational_freq_max_ghz,
		       wideband_freq_min_ghz, wideband_freq_max_ghz,
		       multi_gain_mode, tests_performed, input_ports, output_ports
		FROM devices ORDER BY name`)
	if err != nil {
		return nil, errors.Storage("failed to list devices", err)
	}
	defer rows.Close()

	var devices []*device.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*device.Device, error) {
	var (
		d                          device.Device
		id, tests, inputs, outputs string
	)
	err := row.Scan(&id, &d.Name, &d.Description, &d.PartNumber,
		&d.OperationalFreqMinGHz, &d.OperationalFreqMaxGHz,
		&d.WidebandFreqMinGHz, &d.WidebandFreqMaxGHz,
		&d.MultiGainMode, &tests, &inputs, &outputs)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("device", "requested id")
	}
	if err != nil {
		return nil, errors.Storage("failed to scan device", err)
	}

	d.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, errors.Storage("invalid device id in database", err)
	}
	if err := json.Unmarshal([]byte(tests), &d.TestsPerformed); err != nil {
		return nil, errors.Storage("invalid tests_performed in database", err)
	}
	if err := json.Unmarshal([]byte(inputs), &d.Ports.InputPorts); err != nil {
		return nil, errors.Storage("invalid input_ports in database", err)
	}
	if err := json.Unmarshal([]byte(outputs), &d.Ports.OutputPorts); err != nil {
		return nil, errors.Storage("invalid output_ports in database", err)
	}
	return &d, nil
}

// SaveCriterion inserts or replaces a criterion. Updating a criterion does
// not touch existing results; call MarkStaleByCriterion for that.
func (s *Store) SaveCriterion(ctx context.Context, c *criteria.Criterion) error {
	var bandMin, bandMax *float64
	if c.Band != nil {
		bandMin, bandMax = &c.Band.MinGHz, &c.Band.MaxGHz
	}

	// Upsert, never REPLACE: a REPLACE deletes the old row first and the
	// delete cascades to the criterion's results. An update must leave
	// existing results in place for MarkStaleByCriterion.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO criteria (
			id, device_id, test_type, test_stage, name, kind,
			lower_bound, upper_bound, unit, band_min_ghz, band_max_ghz
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			device_id = excluded.device_id,
			test_type = excluded.test_type,
			test_stage = excluded.test_stage,
			name = excluded.name,
			kind = excluded.kind,
			lower_bound = excluded.lower_bound,
			upper_bound = excluded.upper_bound,
			unit = excluded.unit,
			band_min_ghz = excluded.band_min_ghz,
			band_max_ghz = excluded.band_max_ghz`,
		c.ID.String(), c.DeviceID.String(), c.TestType, c.TestStage, c.Name,
		string(c.Kind), c.Lower, c.Upper, c.Unit, bandMin, bandMax,
	)
	if err != nil {
		return errors.Storage("failed to save criterion", err)
	}
	return nil
}

// ListCriteria returns the validated criteria for a device, test type and
// test stage.
func (s *Store) ListCriteria(ctx context.Context, deviceID uuid.UUID, testType, testStage string) ([]*criteria.Criterion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, device_id, test_type, test_stage, name, kind,
		       lower_bound, upper_bound, unit, band_min_ghz, band_max_ghz
		FROM criteria
		WHERE device_id = ? AND test_type = ? AND test_stage = ?
		ORDER BY name`,
		deviceID.String(), testType, testStage)
	if err != nil {
		return nil, errors.Storage("failed to list criteria", err)
	}
	defer rows.Close()

	var crits []*criteria.Criterion
	for rows.Next() {
		var (
			def              criteria.Definition
			id, devID, kind  string
			bandMin, bandMax *float64
		)
		err := rows.Scan(&id, &devID, &def.TestType, &def.TestStage, &def.Name,
			&kind, &def.Lower, &def.Upper, &def.Unit, &bandMin, &bandMax)
		if err != nil {
			return nil, errors.Storage("failed to scan criterion", err)
		}

		def.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, errors.Storage("invalid criterion id in database", err)
		}
		def.DeviceID, err = uuid.Parse(devID)
		if err != nil {
			return nil, errors.Storage("invalid device id in database", err)
		}
		def.Kind = criteria.Kind(kind)
		if bandMin != nil && bandMax != nil {
			def.Band = &criteria.Band{MinGHz: *bandMin, MaxGHz: *bandMax}
		}

		crit, err := criteria.New(def)
		if err != nil {
			return nil, errors.Wrap(errors.TypeStorage, "stored criterion failed validation", err)
		}
		crits = append(crits, crit)
	}
	return crits, rows.Err()
}

// DeleteCriterion removes a criterion and, via cascade, its results.
func (s *Store) DeleteCriterion(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM criteria WHERE id = ?`, id.String())
	if err != nil {
		return errors.Storage("failed to delete criterion", err)
	}
	return nil
}

// SaveResults stores evaluation results in one transaction.
func (s *Store) SaveResults(ctx context.Context, results []compliance.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO results (
			id, measurement_id, criterion_id, s_parameter, measured_value, passed, stale
		) VALUES (?, ?, ?, ?, ?, ?, 0)`)
	if err != nil {
		return errors.Storage("failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, r := range results {
		_, err := stmt.ExecContext(ctx,
			r.ID.String(), r.MeasurementID.String(), r.CriterionID.String(),
			r.SParameter, r.MeasuredValue, r.Passed)
		if err != nil {
			return errors.Storage("failed to insert result", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Storage("failed to commit results", err)
	}
	return nil
}

// ResultsForMeasurement returns all stored results for a measurement,
// including stale ones; callers filter with compliance.Fresh.
func (s *Store) ResultsForMeasurement(ctx context.Context, measurementID uuid.UUID) ([]compliance.Annotated, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, measurement_id, criterion_id, s_parameter, measured_value, passed, stale
		FROM results WHERE measurement_id = ? ORDER BY s_parameter`,
		measurementID.String())
	if err != nil {
		return nil, errors.Storage("failed to query results", err)
	}
	defer rows.Close()

	var results []compliance.Annotated
	for rows.Next() {
		var (
			a                  compliance.Annotated
			id, measID, critID string
		)
		err := rows.Scan(&id, &measID, &critID, &a.SParameter, &a.MeasuredValue, &a.Passed, &a.Stale)
		if err != nil {
			return nil, errors.Storage("failed to scan result", err)
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, errors.Storage("invalid result id in database", err)
		}
		if a.MeasurementID, err = uuid.Parse(measID); err != nil {
			return nil, errors.Storage("invalid measurement id in database", err)
		}
		if a.CriterionID, err = uuid.Parse(critID); err != nil {
			return nil, errors.Storage("invalid criterion id in database", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// MarkStaleByCriterion flags every result of a criterion as stale,
// returning the number of rows flagged. Call this whenever a criterion is
// updated so old results cannot drive compliance decisions.
func (s *Store) MarkStaleByCriterion(ctx context.Context, criterionID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE results SET stale = 1 WHERE criterion_id = ?`, criterionID.String())
	if err != nil {
		return 0, errors.Storage("failed to mark results stale", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Storage("failed to count stale results", err)
	}
	return n, nil
}

// DeleteStaleForMeasurement removes stale results for a measurement before
// re-evaluation, returning the number deleted.
func (s *Store) DeleteStaleForMeasurement(ctx context.Context, measurementID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM results WHERE measurement_id = ? AND stale = 1`, measurementID.String())
	if err != nil {
		return 0, errors.Storage("failed to delete stale results", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Storage("failed to count deleted results", err)
	}
	return n, nil
}

// OverallPassed reports whether every fresh result for a measurement
// passed. A measurement with no fresh results passes: nothing to fail.
func (s *Store) OverallPassed(ctx context.Context, measurementID uuid.UUID) (bool, error) {
	var failed int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM results WHERE measurement_id = ? AND stale = 0 AND passed = 0`,
		measurementID.String()).Scan(&failed)
	if err != nil {
		return false, errors.Storage("failed to query pass status", err)
	}
	return failed == 0, nil
}
