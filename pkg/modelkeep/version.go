package modelkeep

import (
	"strconv"
	"strings"
)

// modelSuffix is the file extension for checkpoint entries.
const modelSuffix = ".model"

// EncodeRound returns the storage version for a completed round count.
// The mapping is injective: DecodeVersion inverts it exactly for any
// non-negative round.
func EncodeRound(round int) int {
	return round * 2
}

// DecodeVersion returns the round count that produced a storage version.
// Division truncates, so any non-negative version decodes to a valid
// round even if it was not produced by EncodeRound.
func DecodeVersion(version int) int {
	return version / 2
}

// FileName returns the entry name for a version, e.g. "84.model".
func FileName(version int) string {
	return strconv.Itoa(version) + modelSuffix
}

// ParseFileName extracts the version from an entry name.
// Returns false for any name that is not "<non-negative integer>.model";
// such names are foreign to the checkpoint layout and are ignored.
func ParseFileName(name string) (int, bool) {
	base, ok := strings.CutSuffix(name, modelSuffix)
	if !ok || base == "" {
		return 0, false
	}
	version, err := strconv.Atoi(base)
	if err != nil || version < 0 {
		return 0, false
	}
	return version, true
}
