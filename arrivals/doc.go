// Package arrivals is the arrival resolution and ranking pipeline: it
// normalizes GTFS-Realtime trip updates and SIRI stop-monitoring visits into
// one canonical Arrival record per (trip, stop) pair, then groups, orders,
// and annotates them into the per-stop "what to catch and when to leave"
// view.
//
// Everything time-relative (catchability, labels, group retention) takes now
// as an explicit input so it can be tested without the wall clock. Arrivals
// are derived values with a lifetime of one response cycle; they are
// recreated, never mutated, on each refresh.
package arrivals
