// Package gtfsrt fetches and decodes GTFS-Realtime protobuf feeds (trip
// updates, vehicle positions, service alerts) from the agency endpoint.
//
// A fetch produces an immutable Snapshot tagged with its wall-clock fetch
// time. Snapshots carry the decoded feed plus the handful of lookups the
// arrival pipeline and the trip view need; all retry and staleness policy
// lives with the caller's cache layer, not here.
package gtfsrt
