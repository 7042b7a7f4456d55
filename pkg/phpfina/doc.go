// Package phpfina reads PhpFina fixed-interval time series: a <feed_id>.meta
// header paired with a <feed_id>.dat file of densely packed little-endian
// float32 samples, one per interval.
//
// # Basic usage
//
//	cfg := phpfina.DefaultConfig("/var/lib/feeds")
//	meta, err := phpfina.LoadMetaHeader(fsys, cfg, feedID)
//
//	values, err := phpfina.ReadValues(fsys, cfg, feedID, startTime, step, window)
//
//	rows, err := phpfina.ComputeDailyStats(fsys, cfg, feedID, phpfina.StatsRequest{
//	    StartTime:   startTime,
//	    StepsWindow: phpfina.AllSteps,
//	})
//
// # Missing samples
//
// A missing sample is a float32 NaN on disk. [IsMissing] and [Missing] are
// the sanctioned way to test for and produce this sentinel; resampling and
// stats both propagate it by ignoring it (ignore-missing mean), never by
// treating it as zero.
//
// # Error handling
//
// Every exported operation returns a *[Error] classified by [Kind]; callers
// should branch with errors.Is against the package's Err* sentinels rather
// than inspecting Error's fields directly.
//
// # No write path
//
// This package never writes to a .meta/.dat pair. Deriving and caching
// results (e.g. precomputed daily stats) is the caller's concern; see
// cmd/fina's cache subcommand for one such caller.
package phpfina
