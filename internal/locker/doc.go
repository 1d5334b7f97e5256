// Package locker wraps an advisory file lock into a scoped guard.
//
// Overlapping cron ticks are expected; the loser of TryAcquire must skip its
// tick rather than queue, so the lock is strictly non-blocking. The guard is
// released on every exit path via a deferred Release.
package locker
