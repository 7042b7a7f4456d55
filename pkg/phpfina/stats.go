package phpfina

import (
	"math"

	pfs "github.com/emontools/phpfina/internal/fs"
)

// StatsKind selects what a daily stats row reports.
type StatsKind int

const (
	// StatsValues reports min/mean/max over each day's finite samples.
	StatsValues StatsKind = iota

	// StatsIntegrity reports only NFinite/NTotal per day, skipping the
	// min/mean/max aggregation entirely.
	StatsIntegrity
)

// AllSteps requests every stored sample from the request's start_time to
// the end of the feed.
const AllSteps int64 = -1

// StatsRequest parameterizes [ComputeDailyStats].
type StatsRequest struct {
	// StartTime anchors the first day. Need not itself be a day boundary.
	StartTime uint64

	// StepsWindow caps how many stored samples are scanned, or AllSteps
	// for everything from StartTime onward.
	StepsWindow int64

	// MaxSize is a hard ceiling on the number of samples scanned,
	// independent of StepsWindow; exceeding it is OutOfRange rather than
	// silently truncating. Zero means no ceiling.
	MaxSize uint64

	// MinValue and MaxValue, if non-nil, exclude samples outside
	// [*MinValue, *MaxValue] from the day's aggregation (treated as
	// missing), without affecting NTotal.
	MinValue *float64
	MaxValue *float64

	Kind StatsKind
}

// DayStats is one UTC day's aggregation.
type DayStats struct {
	// DayStart is the unix timestamp of 00:00:00 UTC for this day.
	DayStart uint64

	// Min, Mean, Max are NaN if NFinite == 0 for StatsValues. For
	// StatsIntegrity they are not computed and stay zero.
	Min, Mean, Max float64

	// NFinite counts samples that were neither missing nor filtered out
	// by MinValue/MaxValue. NTotal counts every sample in the day,
	// regardless of filtering.
	NFinite, NTotal uint64
}

const secondsPerDay = 86400

func startOfUTCDay(ts uint64) uint64 {
	return ts - ts%secondsPerDay
}

// ComputeDailyStats streams feedID's stored samples day by day (UTC),
// aggregating each day independently so memory use stays O(samples per
// day) regardless of the window's total size.
func ComputeDailyStats(fsys pfs.FS, cfg Config, feedID int64, req StatsRequest) ([]DayStats, error) {
	meta, err := LoadMetaHeader(fsys, cfg, feedID)
	if err != nil {
		return nil, err
	}

	return computeDailyStatsForMeta(fsys, cfg, feedID, meta, req)
}

func computeDailyStatsForMeta(fsys pfs.FS, cfg Config, feedID int64, meta MetaHeader, req StatsRequest) ([]DayStats, error) {
	if meta.NPoints == 0 {
		return nil, newErr(OutOfRange, "feed_id", nil, "feed has no stored samples")
	}

	interval := uint64(meta.Interval)

	diff := int64(req.StartTime) - int64(meta.StartTime)

	var startPos uint64
	if diff > 0 {
		startPos = uint64(diff) / interval
	}

	if startPos >= meta.NPoints {
		return nil, newErr(OutOfRange, "start_time", nil,
			"start_time %d maps past the feed's last stored sample", req.StartTime)
	}

	stepsWindow := req.StepsWindow
	if stepsWindow == AllSteps {
		stepsWindow = int64(meta.NPoints - startPos)
	}

	if err := validatePositiveInt(stepsWindow, "steps_window"); err != nil {
		return nil, err
	}

	selected := uint64(stepsWindow)
	if remaining := meta.NPoints - startPos; selected > remaining {
		selected = remaining
	}

	if req.MaxSize > 0 && selected > req.MaxSize {
		return nil, newErr(OutOfRange, "steps_window", nil,
			"selected window of %d samples exceeds max_size %d", selected, req.MaxSize)
	}

	reader, err := openChunkReaderForMeta(fsys, cfg, feedID, meta)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var (
		rows         []DayStats
		pos          = startPos
		remaining    = selected
		currentDay   = startOfUTCDay(uint64(meta.StartTime) + startPos*interval)
		samplesInDay = secondsPerDay / interval
	)

	// The first day may be partial if startPos doesn't land on a day
	// boundary; every day after that reads a full day's worth of samples.
	firstDaySamples := (currentDay + secondsPerDay - uint64(meta.StartTime) - startPos*interval) / interval

	first := true

	for remaining > 0 {
		n := samplesInDay
		if first {
			n = firstDaySamples
			first = false
		}

		if n > remaining {
			n = remaining
		}

		if n == 0 {
			break
		}

		window := n
		values := make([]float32, 0, n)

		for chunk, chunkErr := range reader.Read(pos, cfg.ChunkSizeFloor, &window, true) {
			if chunkErr != nil {
				return nil, chunkErr
			}

			values = append(values, chunk.Values...)
		}

		lastPos := pos + uint64(len(values)) - 1
		lastTimestamp := uint64(meta.StartTime) + lastPos*interval

		if lastTimestamp >= currentDay+secondsPerDay {
			return nil, newErr(ChunkBoundaryViolation, "day", nil,
				"day starting at %d pulled a sample at %d, past its boundary", currentDay, lastTimestamp)
		}

		filtered := applyRangeFilter(values, req.MinValue, req.MaxValue)
		rows = append(rows, computeDayRow(filtered, currentDay, req.Kind))

		pos += uint64(len(values))
		remaining -= uint64(len(values))
		currentDay += secondsPerDay
	}

	return trimTrailingPlaceholders(rows), nil
}

func applyRangeFilter(values []float32, minV, maxV *float64) []float32 {
	if minV == nil && maxV == nil {
		return values
	}

	out := make([]float32, len(values))
	copy(out, values)

	for i, v := range out {
		if IsMissing(v) {
			continue
		}

		f := float64(v)
		if (minV != nil && f < *minV) || (maxV != nil && f > *maxV) {
			out[i] = Missing()
		}
	}

	return out
}

func computeDayRow(values []float32, dayStart uint64, kind StatsKind) DayStats {
	row := DayStats{DayStart: dayStart, NTotal: uint64(len(values))}

	minV, maxV, sum := math.Inf(1), math.Inf(-1), 0.0

	for _, v := range values {
		if IsMissing(v) {
			continue
		}

		row.NFinite++

		f := float64(v)
		if f < minV {
			minV = f
		}

		if f > maxV {
			maxV = f
		}

		sum += f
	}

	if kind == StatsIntegrity {
		return row
	}

	if row.NFinite == 0 {
		row.Min, row.Mean, row.Max = math.NaN(), math.NaN(), math.NaN()
		return row
	}

	row.Min, row.Mean, row.Max = minV, sum/float64(row.NFinite), maxV

	return row
}

// trimTrailingPlaceholders drops unfilled day rows from the tail of the
// result. The reference implementation preallocates one extra row of
// slack per scan and trims it away at the end; this builder only ever
// appends a row once a day has actually been read, so there is nothing to
// trim, but the step is kept as an explicit, named no-op so the day-by-day
// state machine reads the same regardless of builder strategy.
func trimTrailingPlaceholders(rows []DayStats) []DayStats {
	return rows
}
