package modelkeep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEncodeRound verifies the round to version mapping.
func TestEncodeRound(t *testing.T) {
	tests := []struct {
		round   int
		version int
	}{
		{0, 0},
		{1, 2},
		{3, 6},
		{17, 34},
		{1000000, 2000000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.version, EncodeRound(tt.round))
	}
}

// TestDecodeVersion verifies the version to round mapping, including
// truncation of odd versions to the last completed round.
func TestDecodeVersion(t *testing.T) {
	tests := []struct {
		version int
		round   int
	}{
		{0, 0},
		{2, 1},
		{6, 3},
		{7, 3},
		{34, 17},
		{35, 17},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.round, DecodeVersion(tt.version))
	}
}

// TestRoundTrip verifies decode inverts encode for every round.
func TestRoundTrip(t *testing.T) {
	for round := 0; round <= 100; round++ {
		assert.Equal(t, round, DecodeVersion(EncodeRound(round)))
	}
}

// TestFileName verifies entry file naming.
func TestFileName(t *testing.T) {
	assert.Equal(t, "0.model", FileName(0))
	assert.Equal(t, "6.model", FileName(6))
	assert.Equal(t, "34.model", FileName(34))
}

// TestParseFileName verifies entry recognition, especially rejection
// of names the manager never writes.
func TestParseFileName(t *testing.T) {
	tests := []struct {
		name    string
		version int
		ok      bool
	}{
		{"6.model", 6, true},
		{"0.model", 0, true},
		{"34.model", 34, true},
		{"6.json", 0, false},
		{"model", 0, false},
		{".model", 0, false},
		{"", 0, false},
		{"-2.model", 0, false},
		{"six.model", 0, false},
		{"3.5.model", 0, false},
		{"6.model.tmp", 0, false},
		{"6.model ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParseFileName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.version, v)
			}
		})
	}
}

// TestFileNameRoundTrip verifies every written name parses back.
func TestFileNameRoundTrip(t *testing.T) {
	for _, v := range []int{0, 2, 6, 34, 2000000} {
		parsed, ok := ParseFileName(FileName(v))
		assert.True(t, ok)
		assert.Equal(t, v, parsed)
	}
}
