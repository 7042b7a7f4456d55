package phpfina

import (
	pfs "github.com/emontools/phpfina/internal/fs"
)

// Series is the result of [ReadSeries]: a fixed-step time axis paired with
// one value per step, missing samples represented as NaN.
type Series struct {
	StartTime uint64
	Step      uint64
	Values    []float32
}

// Timestamps returns the timestamp of each entry in Values.
func (s Series) Timestamps() []uint64 {
	out := make([]uint64, len(s.Values))
	for i := range out {
		out[i] = s.StartTime + uint64(i)*s.Step
	}

	return out
}

// ReadValues resamples feedID's stored samples onto a step-aligned axis
// covering [startTime, startTime+window), in units of step. step must be a
// positive multiple of the feed's interval; a step equal to the interval
// is a 1:1 copy, a larger step is an ignore-missing block mean over
// step/interval stored samples.
//
// Requested positions before sample 0 or after the feed's last stored
// sample are padded with the missing sentinel rather than rejected; a
// request whose startTime is at or after end_time is an OutOfRange error.
func ReadValues(fsys pfs.FS, cfg Config, feedID int64, startTime, step, window uint64) ([]float32, error) {
	meta, err := LoadMetaHeader(fsys, cfg, feedID)
	if err != nil {
		return nil, err
	}

	return readValuesForMeta(fsys, cfg, feedID, meta, startTime, step, window)
}

func readValuesForMeta(fsys pfs.FS, cfg Config, feedID int64, meta MetaHeader, startTime, step, window uint64) ([]float32, error) {
	if err := validatePositiveInt(int64(step), "step"); err != nil {
		return nil, err
	}

	if err := validatePositiveInt(int64(window), "window"); err != nil {
		return nil, err
	}

	if step%uint64(meta.Interval) != 0 {
		return nil, newErr(InvalidArgument, "step", nil,
			"step %d is not a multiple of the feed's interval %d", step, meta.Interval)
	}

	if err := validateUnixTimestamp(startTime, "start_time"); err != nil {
		return nil, err
	}

	if meta.NPoints == 0 || startTime >= meta.EndTime {
		return nil, newErr(OutOfRange, "start_time", nil,
			"start_time %d is not before the feed's end_time %d", startTime, meta.EndTime)
	}

	stepFactor := step / uint64(meta.Interval)
	nOut := window / step

	out := make([]float32, nOut)
	for i := range out {
		out[i] = Missing()
	}

	if nOut == 0 {
		return out, nil
	}

	// rawPos0 is the (possibly negative) stored-sample index that
	// startTime maps to. A request may legitimately begin before sample 0
	// (padded with missing values) or extend past the last stored sample.
	rawPos0 := (int64(startTime) - int64(meta.StartTime)) / int64(meta.Interval)

	readStart := rawPos0
	readEnd := rawPos0 + int64(nOut)*int64(stepFactor)

	clampedStart := max(readStart, 0)
	clampedEnd := min(readEnd, int64(meta.NPoints))

	if clampedStart >= clampedEnd {
		return out, nil
	}

	reader, err := openChunkReaderForMeta(fsys, cfg, feedID, meta)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	sums := make([]float64, nOut)
	counts := make([]uint64, nOut)

	toRead := uint64(clampedEnd - clampedStart)

	for chunk, chunkErr := range reader.Read(uint64(clampedStart), cfg.ChunkSizeFloor, &toRead, true) {
		if chunkErr != nil {
			return nil, chunkErr
		}

		for i, v := range chunk.Values {
			p := int64(chunk.Start) + int64(i)
			k := (p - rawPos0) / int64(stepFactor)

			if k < 0 || k >= int64(nOut) {
				continue
			}

			if IsMissing(v) {
				continue
			}

			sums[k] += float64(v)
			counts[k]++
		}
	}

	// A block's mean is computed over its finite samples only (ignore
	// missing); a block with zero finite samples stays NaN. This uniform
	// treatment also covers the step == interval case: a one-sample block
	// reduces to the identity copy, and a missing sample correctly yields
	// a missing output rather than a spurious zero.
	for k := range out {
		if counts[k] > 0 {
			out[k] = float32(sums[k] / float64(counts[k]))
		}
	}

	return out, nil
}

// ReadSeries is [ReadValues] plus the timestamp axis it implies.
func ReadSeries(fsys pfs.FS, cfg Config, feedID int64, startTime, step, window uint64) (Series, error) {
	values, err := ReadValues(fsys, cfg, feedID, startTime, step, window)
	if err != nil {
		return Series{}, err
	}

	return Series{StartTime: startTime, Step: step, Values: values}, nil
}
