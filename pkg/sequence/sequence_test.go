package sequence

import (
	"bytes"
	"testing"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		seq     uint32
		payload []byte
		want    uint32
	}{
		{"nil payload", 100, nil, 100},
		{"empty payload", 100, []byte{}, 100},
		{"advances by payload length", 100, []byte("hello"), 105},
		{"from zero", 0, bytes.Repeat([]byte{0}, 1000), 1000},
		{"at the wrap boundary", Modulus - 1, []byte{0}, 0},
		{"just before the wrap boundary", Modulus - 3, []byte("ab"), Modulus - 1},
		{"wraps past the boundary", Modulus - 2, []byte("hello"), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Next(tt.seq, tt.payload); got != tt.want {
				t.Errorf("Next(%d, %d bytes) = %d, want %d",
					tt.seq, len(tt.payload), got, tt.want)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name string
		seq  uint32
		n    uint64
		want uint32
	}{
		{"zero advance", 42, 0, 42},
		{"plain advance", 42, 8, 50},
		{"modulus is identity", 42, Modulus, 42},
		{"large advance wraps", 0, Modulus + 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Add(tt.seq, tt.n); got != tt.want {
				t.Errorf("Add(%d, %d) = %d, want %d", tt.seq, tt.n, got, tt.want)
			}
		})
	}
}

// Advancing in two steps lands on the same number as one combined step.
func TestAddComposes(t *testing.T) {
	seqs := []uint32{0, 1, 1 << 16, Modulus - 1}
	steps := []uint64{0, 1, 512, 1 << 20}

	for _, seq := range seqs {
		for _, a := range steps {
			for _, b := range steps {
				twoStep := Add(Add(seq, a), b)
				oneStep := Add(seq, a+b)
				if twoStep != oneStep {
					t.Errorf("Add(Add(%d, %d), %d) = %d, want %d", seq, a, b, twoStep, oneStep)
				}
			}
		}
	}
}
