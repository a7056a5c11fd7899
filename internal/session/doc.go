// Package session hosts timelines behind the serialization boundary the core
// engine deliberately omits. Each session owns one timeline and a mutex; every
// engine operation runs under that lock, and dispatched callbacks are fanned
// out to live subscribers via the broker and persisted to the event audit log.
package session
