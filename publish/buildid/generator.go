package buildid

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// MaxSpins is the recommended bound on CAS retries for a single NextID call.
// A generator that loses this many swaps in a row is being driven past what
// its configuration supports, and erroring out throttles callers naturally.
const MaxSpins = 100

var (
	ErrWorkerBitRange    = errors.New("buildid: worker and sequence bits overflow the space beneath the timestamp")
	ErrOverloaded        = errors.New("buildid: the generator is overloaded for its configuration")
	ErrClockError        = errors.New("buildid: the system clock reading is not plausible")
	ErrSequenceViolation = errors.New("buildid: consecutive ids violated the monotonic or uniqueness promise")
)

// unixNanoEndSentinel is a year short of where time.Time.UnixNano overflows
// an int64. A reading beyond it means the host clock is misconfigured.
var unixNanoEndSentinel = time.Date(2261, 1, 1, 1, 1, 1, 1, time.UTC)

// Generator mints build ids for one builder process. It is safe for
// concurrent use. The zero value is not usable; construct with NewGenerator.
type Generator struct {
	allowSpins int

	workerIDMask   uint64
	maskedWorkerID uint64 // worker id pre-shifted into position above the sequence

	seqMask uint64
	seqBits int

	epochStartWallClock time.Time     // wall clock only, no monotonic reading
	generatorStart      time.Time     // includes the monotonic clock reading
	startWallOffset     time.Duration // generatorStart - epochStartWallClock

	// monotonic holds the timestamp and sequence of the last minted id, but
	// not the worker bits. It only ever increases. That single invariant is
	// what both the uniqueness and the ordering promises rest on.
	monotonic atomic.Uint64
}

func NewGenerator(cfg Config) (*Generator, error) {
	workerID, seqBits, err := workerIDSequenceBits(cfg)
	if err != nil {
		return nil, err
	}

	g := &Generator{allowSpins: int(cfg.AllowSpins)}
	if err = g.initTime(cfg.IndexEpoch); err != nil {
		return nil, err
	}
	if err = g.initState(workerID, seqBits); err != nil {
		return nil, err
	}
	return g, nil
}

// EpochStart returns the wall clock time the generator's timestamps are
// relative to.
func (g *Generator) EpochStart() time.Time {
	return g.epochStartWallClock
}

// millisecondNow returns milliseconds since the epoch start, sampled from the
// process monotonic clock so NextID never observes a backwards adjustment.
func (g *Generator) millisecondNow() uint64 {
	now := time.Now()
	return uint64((now.Sub(g.generatorStart) + g.startWallOffset) / time.Millisecond)
}

// NextID returns the next value in a time ordered, unique and strictly
// increasing series. Under contention beyond what the configuration supports
// it returns ErrOverloaded; callers should back off with jitter and retry
// rather than treating that as fatal.
func (g *Generator) NextID() (uint64, error) {

	// Read/modify/write on the monotonic word. The CAS is what makes the
	// generator safe to share: a swap only lands if no other goroutine minted
	// an id since our read, so every published value was derived from the
	// value before it. Sequence slots are sub-microsecond at scale, which
	// rules out locks; the spin only bites under contention and is bounded
	// by allowSpins.

	var next uint64

	// allowSpins == 0 means try once
	for i := 0; i <= g.allowSpins; i++ {

		// The monotonic sample is anchored to the wall clock at construction.
		// Wall clock time would track ntp adjustments, but the rule below
		// suppresses reverse adjustments anyway, so all that is lost is
		// forward nudges during the process life.
		now := g.millisecondNow()
		last := g.monotonic.Load()

		lastTime := last >> TimeShift
		lastSeq := last & g.seqMask

		switch {

		case now > lastTime:
			// Time moved past the millisecond of the last id. Shifting the
			// new time into place resets the sequence bits to zero.
			next = now << TimeShift

		// Beyond here now is equal to, or behind, the time of the last id.
		// Behind happens under clock drift and scheduler pauses; both are
		// treated as equal-and-bump-the-sequence. The ids carry a fair
		// millisecond granularity relation to real time, not an attestation
		// of it; what is non-negotiable is uniqueness.

		case lastSeq == g.seqMask:
			// Sequence exhausted: force the next millisecond and reset.
			// lastTime, not now, because lastTime >= now here.
			next = (lastTime + 1) << TimeShift
		default:
			// The sequence occupies the lowest bits, so increment is addition.
			next = last + 1
		}

		if next <= last {
			return 0, fmt.Errorf("%016x:%016x %02x:%02x %d:%d: %w",
				last, next, lastSeq, g.seqMask, lastTime, now, ErrSequenceViolation)
		}

		if g.monotonic.CompareAndSwap(last, next) {
			return next | g.maskedWorkerID, nil
		}
	}

	// Every swap was beaten by another goroutine. There is nothing safe to
	// salvage from intermediate state here: a blind Add could overflow the
	// sequence into the worker bits and mint a duplicate. The answer to
	// tripping this is horizontal scaling, not a bigger spin.
	return 0, ErrOverloaded
}

func (g *Generator) initTime(epoch uint8) error {

	// No UTC() here, that would strip the monotonic reading.
	g.generatorStart = time.Now()

	if g.generatorStart.After(unixNanoEndSentinel) {
		return fmt.Errorf("clock reading near the int64 nanosecond limit: %w", ErrClockError)
	}

	g.epochStartWallClock = time.UnixMilli(EpochMS(epoch)).UTC()
	g.startWallOffset = g.generatorStart.Sub(g.epochStartWallClock)
	return nil
}

func (g *Generator) initState(workerID uint16, seqBits int) error {
	if seqBits > MaxWorkerBits || MaxWorkerBits-seqBits < MinWorkerBits {
		return fmt.Errorf("sequence bit count %d is too large (check the CIDR): %w", seqBits, ErrWorkerBitRange)
	}
	if seqBits < MinWorkerBits {
		return fmt.Errorf("sequence bit count %d is too small (check the CIDR): %w", seqBits, ErrWorkerBitRange)
	}

	g.workerIDMask = ((1 << (MaxWorkerBits - seqBits)) - 1) << seqBits
	g.maskedWorkerID = uint64(workerID) << seqBits
	g.seqMask = (1 << seqBits) - 1
	g.seqBits = seqBits
	g.monotonic.Store(0)
	return nil
}
