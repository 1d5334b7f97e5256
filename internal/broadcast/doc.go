// Package broadcast delivers alert messages to Chromecast devices.
//
// Device discovery and the cast protocol are delegated to go-chromecast;
// the package contributes only device matching, a text-to-speech media URL,
// and the Broadcaster interface the monitor service consumes.
package broadcast
