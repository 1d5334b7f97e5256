// Package readings implements SQLite persistence for sensor readings and
// alert records.
//
// The SQLiteRepository consumes the two-table schema produced by the sensor
// process (readings, alerts) and exposes the Repository interface the monitor
// service depends on: the windowed temperature average, the most recent alert
// timestamp, and append-only alert recording.
package readings
