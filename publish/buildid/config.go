package buildid

// Config holds the fleet level settings for a build id generator. Every
// builder in a fleet must share the same IndexEpoch and WorkerCIDR.
type Config struct {
	// IndexEpoch fixes the zero time of the 40 bit millisecond timestamp.
	// Each epoch spans roughly 34 years of unix time; deployments should
	// treat the current epoch as a constant. The narrow type keeps
	// IndexEpoch * 2^TimeBits inside an int64.
	IndexEpoch uint8

	// WorkerCIDR selects the bits of PodIP that distinguish builders, so two
	// pods in the same fleet can never mint the same id.
	WorkerCIDR string

	// PodIP is the builder's private ip address, as assigned by the cluster.
	PodIP string

	// AllowSpins bounds the CAS retries a single NextID call may make under
	// contention. Use MaxSpins unless a measurement says otherwise; zero is
	// supported and means try once.
	AllowSpins uint8
}

const (
	// TimeBits is the width of the millisecond timestamp held in the top
	// bits of every id. It is not configurable; the blob naming scheme and
	// the epoch arithmetic both assume it.
	TimeBits  = 40
	TimeShift = 64 - TimeBits

	TimeMask uint64 = ((1 << TimeBits) - 1) << TimeShift
)
