//go:build unix

package takeout

import "golang.org/x/sys/unix"

// availableBytes returns the free space available to unprivileged users on
// the filesystem containing path.
func availableBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil //nolint:gosec // Bavail/Bsize are non-negative counts
}
