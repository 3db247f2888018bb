package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum_DeterministicAndSized(t *testing.T) {
	a := Checksum([]byte("culvert photo"))
	b := Checksum([]byte("culvert photo"))

	require.Len(t, a, ChecksumSize)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Checksum([]byte("ditch photo")))
}

func TestVerify(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	sum := Checksum(data)

	tests := []struct {
		name string
		data []byte
		sum  []byte
		want bool
	}{
		{"match", data, sum, true},
		{"tampered data", []byte{0xFF, 0xD8, 0x00, 0xE0}, sum, false},
		{"short sum", data, sum[:8], false},
		{"nil sum", data, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.data, tt.sum))
		})
	}
}
