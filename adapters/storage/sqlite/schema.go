package sqlite

// Schema for the embedded results database. Criteria reference devices,
// results reference criteria; results carry the stale flag the evaluator
// itself never sets.
const schema = `
CREATE TABLE IF NOT EXISTS devices (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	part_number TEXT NOT NULL,
	operational_freq_min_ghz REAL NOT NULL,
	operational_freq_max_ghz REAL NOT NULL,
	wideband_freq_min_ghz REAL NOT NULL,
	wideband_freq_max_ghz REAL NOT NULL,
	multi_gain_mode INTEGER NOT NULL DEFAULT 0,
	tests_performed TEXT NOT NULL DEFAULT '[]',
	input_ports TEXT NOT NULL,
	output_ports TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS criteria (
	id TEXT PRIMARY KEY,
	device_id TEXT NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
	test_type TEXT NOT NULL,
	test_stage TEXT NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	lower_bound REAL,
	upper_bound REAL,
	unit TEXT NOT NULL DEFAULT '',
	band_min_ghz REAL,
	band_max_ghz REAL
);

CREATE INDEX IF NOT EXISTS idx_criteria_device
	ON criteria(device_id, test_type, test_stage);

CREATE TABLE IF NOT EXISTS results (
	id TEXT PRIMARY KEY,
	measurement_id TEXT NOT NULL,
	criterion_id TEXT NOT NULL REFERENCES criteria(id) ON DELETE CASCADE,
	s_parameter TEXT NOT NULL,
	measured_value REAL,
	passed INTEGER NOT NULL,
	stale INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_results_measurement
	ON results(measurement_id);

CREATE INDEX IF NOT EXISTS idx_results_criterion
	ON results(criterion_id);
`
