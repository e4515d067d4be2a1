package takeout

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// directorySize returns the total size in bytes of all regular files
// under root.
func directorySize(root string) (int64, error) {
	var total int64

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

// checkDiskSpace verifies the filesystem holding dest has room for a copy
// of the source tree plus a safety margin.
func checkDiskSpace(sourceDir, dest string, margin float64) error {
	sourceSize, err := directorySize(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to measure source tree: %w", err)
	}

	avail, err := availableBytes(dest)
	if err != nil {
		return fmt.Errorf("failed to check free space: %w", err)
	}

	required := uint64(float64(sourceSize) * margin)
	if avail < required {
		const gb = 1 << 30
		return fmt.Errorf("insufficient disk space: need %.1f GB (source %.1f GB with %d%% margin), have %.1f GB",
			float64(required)/gb,
			float64(sourceSize)/gb,
			int((margin-1)*100),
			float64(avail)/gb,
		)
	}

	return nil
}
