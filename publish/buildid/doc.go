// Package buildid mints the 64 bit ids that name published index builds.
//
// An id packs 40 bits of millisecond time since a configured epoch above a
// worker id and a sequence counter, so ids sort by creation time and the zero
// padded hex form used in blob names sorts identically. Uniqueness holds
// across a builder fleet: the worker bits are derived from each pod's private
// ip address, and within a process a CAS guarded counter serializes ids
// minted in the same millisecond. When the configured throughput is exceeded
// the generator reports ErrOverloaded instead of risking a duplicate.
package buildid
