// Package monitor orchestrates one cron tick of the temperature monitor:
// lock acquisition, the windowed average read, the alert-eligibility
// decision, broadcasting, and alert recording.
package monitor
