//go:build !unix

package takeout

import "math"

// availableBytes reports unlimited space on platforms without statfs;
// the preflight check is effectively disabled there.
func availableBytes(_ string) (uint64, error) {
	return math.MaxUint64, nil
}
