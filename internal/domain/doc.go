// Package domain models oil-sheen detection events around submerged wrecks.
//
// # Data Source
//
// Candidates come from Sentinel-1 C-band SAR imagery (COPERNICUS/S1_GRD),
// queried through an external imagery-analysis platform. Surface oil damps
// capillary waves, so a sheen shows up as a region of anomalously low radar
// backscatter, a "dark spot". The platform performs the pixel work
// (decibel conversion, adaptive 15th-percentile thresholding, one round of
// morphological open/close to knock out speckle, vectorization) and returns
// polygon features tagged with the source image id and acquisition time.
// This package only reasons about the returned geometries.
//
// # Wreck Coordinates
//
// Wreck documents accumulated from several upstream systems, so the
// geographic position can appear under any of ten known field shapes
// (a nested screening-phase pair, a top-level pair, location/geometry/geo/
// position sub-objects, a historical-location sub-object). [ResolvePosition]
// probes them in fixed priority order; coordinates present as either an
// ordered [lng, lat] pair or a mapping with lat/latitude and lng/longitude
// keys. The first shape that yields two numeric values wins outright; there
// is no merging across shapes.
//
// # Severity Classification
//
// A candidate escalates on the conjunction of size AND proximity:
//
//	critical: area ≥ criticalArea km² AND distance ≤ criticalDist km
//	warning:  area ≥ warnArea km²     AND distance ≤ warnDist km
//	info:     everything else
//
// Both conditions must hold: a large slick far from the wreck, or a small
// one right on top of it, stays info. First match wins, critical checked
// first. Defaults: critical 0.5 km² within 5 km, warning 0.2 km² within 10 km.
//
// # Event Identity
//
// Event IDs are "<imageId>-<trunc(distance_km*1000)>". Re-evaluating the same
// source image produces the same ID, so writes are idempotent merge-upserts
// rather than duplicates, while two candidates from one image at different
// distances stay distinct. Two candidates at the same truncated distance
// collide into one record, and a sub-millimeter shift of the representative
// vertex changes identity across runs; both are accepted properties of the
// scheme. See [EventID].
package domain
