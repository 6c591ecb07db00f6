package buildid

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrMilliEpochOverflow = errors.New("buildid: an epoch allows for at most 2^40 milliseconds")

// EpochMS returns the unix milliseconds at which the given epoch starts.
// Epochs tile the unix timeline in spans of 2^TimeBits-1 milliseconds,
// roughly 34 years each.
func EpochMS(epoch uint8) int64 {
	return int64(epoch) * ((1 << TimeBits) - 1)
}

// EpochTimeUTC returns the start of the given epoch as a UTC time.
func EpochTimeUTC(epoch uint8) time.Time {
	return time.UnixMilli(EpochMS(epoch)).UTC()
}

// IDTime recovers the timestamp of an id relative to an epoch start obtained
// from Generator.EpochStart or EpochTimeUTC. The result keeps whatever
// monotonic reading epochStart carries; callers wanting UTC can convert.
func IDTime(id uint64, epochStart time.Time) time.Time {
	ms := id >> TimeShift
	return epochStart.Add(time.Duration(ms) * time.Millisecond)
}

// UnixMilli returns the unix millisecond timestamp of an id minted in the
// given epoch.
func UnixMilli(id uint64, epoch uint8) (int64, error) {
	ms, _ := Split(id)
	startMS := uint64(EpochMS(epoch))
	if ms+startMS > math.MaxInt64 {
		return 0, fmt.Errorf("%d too large when added to the epoch start: %w", ms, ErrMilliEpochOverflow)
	}
	return int64(startMS + ms), nil
}

// Split separates an id into its millisecond timestamp and the combined
// worker and sequence bits. The latter is guaranteed < 2^MaxWorkerBits.
func Split(id uint64) (uint64, uint32) {
	return id >> TimeShift, uint32(id & ^TimeMask)
}
