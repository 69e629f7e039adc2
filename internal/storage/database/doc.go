// Package database opens SQL backends for record storage.
//
// A Database is constructed from a Backend and is known to be openable:
// New connects once and disconnects again before returning. Callers then
// Connect for the lifetime of their session, obtain tables, and Disconnect
// on shutdown.
package database
