// Package config defines monitor settings and provides helpers to load,
// validate and save them in YAML format.
//
// Cron deployments can keep flags out of the crontab by pointing the CLI
// at a settings file; explicit flags still override file values.
package config
