package buildid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"net"
)

var (
	ErrBadWorkerCIDR = errors.New("buildid: worker CIDR is invalid")
	ErrBadPodIP      = errors.New("buildid: pod ip is invalid")
	ErrMaskRange     = errors.New("buildid: the CIDR mask allows too many or too few private ips")
)

const (
	// MaxWorkerBits is the total allocation below the timestamp, shared
	// between the worker id and the sequence counter.
	MaxWorkerBits = 24
	// MinWorkerBits is the smallest share either side may receive.
	MinWorkerBits = 8
)

// workerIDSequenceBits derives the builder's worker id from its pod ip and
// returns it together with the bit count left over for the sequence counter.
func workerIDSequenceBits(cfg Config) (uint16, int, error) {

	mask, err := parseMask(cfg.WorkerCIDR)
	if err != nil {
		return 0, 0, err
	}
	ip, err := parseIP(cfg.PodIP)
	if err != nil {
		return 0, 0, err
	}

	workerIDBits := bits.Len16(binary.BigEndian.Uint16(mask[2:]))
	sequenceBits := MaxWorkerBits - workerIDBits

	masked := ip.Mask(mask)
	id := binary.BigEndian.Uint16(masked[2:])

	return id, sequenceBits, nil
}

// parseMask parses the CIDR whose host part selects the worker id bits from
// the pod ip. After inversion the mask must cover between 2^MinWorkerBits
// and 2^(MaxWorkerBits-MinWorkerBits) addresses.
func parseMask(workerCIDR string) (net.IPMask, error) {
	_, ipNet, err := net.ParseCIDR(workerCIDR)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", workerCIDR, err, ErrBadWorkerCIDR)
	}

	mask := invertIPMask(ipNet.Mask)
	if mask[0] != 0 || mask[1] != 0 {
		return nil, fmt.Errorf("%s allows too many ips: %w", workerCIDR, ErrMaskRange)
	}
	if mask[2] == 0 && mask[3] < 255 {
		return nil, fmt.Errorf("%s allows too few ips: %w", workerCIDR, ErrMaskRange)
	}
	return mask, nil
}

// invertIPMask inverts the mask in place and also returns it.
func invertIPMask(mask net.IPMask) net.IPMask {
	for i := range mask {
		mask[i] = ^mask[i]
	}
	return mask
}

// parseIP parses a pod ip and requires that it was allocated from a known
// private range.
func parseIP(podIP string) (net.IP, error) {
	ip := net.ParseIP(podIP)
	if ip == nil {
		return nil, fmt.Errorf("%s does not parse: %w", podIP, ErrBadPodIP)
	}
	if !ip.IsPrivate() {
		return nil, fmt.Errorf("%s is not a private ip: %w", podIP, ErrBadPodIP)
	}
	return ip, nil
}
