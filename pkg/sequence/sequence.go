// Package sequence provides 32-bit transport sequence-number arithmetic.
// Sequence numbers advance by payload length and wrap modulo Modulus, so
// they stay representable in a 32-bit header field indefinitely.
package sequence

// Modulus is the wraparound point for sequence numbers.
const Modulus = 1<<32 - 1

// Next returns the sequence number following seq once payload has been
// consumed. A nil or empty payload leaves the sequence unchanged.
func Next(seq uint32, payload []byte) uint32 {
	return Add(seq, uint64(len(payload)))
}

// Add advances seq by n modulo Modulus.
func Add(seq uint32, n uint64) uint32 {
	return uint32((uint64(seq) + n) % Modulus)
}
