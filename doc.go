// Package realtimebus is the HTTP surface over the arrival pipeline: thin
// handlers that adapt arrivals.Service output to JSON, plus the server
// lifecycle. All domain logic lives in the subpackages.
package realtimebus
