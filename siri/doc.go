// Package siri fetches and decodes SIRI stop-monitoring JSON, the per-stop
// real-time arrivals API that complements the GTFS-Realtime feeds.
//
// The upstream payload is loosely typed: DestinationName arrives as either a
// bare string or a one-element array, and DirectionRef as a string or a
// number. FlexString absorbs those shapes at the decoding boundary so nothing
// downstream has to branch on them.
package siri
