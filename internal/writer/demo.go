package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// maxFramesPerFile caps how many frames a single demo data file claims.
// Real acquisitions split long collections the same way.
const maxFramesPerFile = 1000

// DemoDataFiles creates empty placeholder data files alongside the metadata
// file so the tree's external links resolve, and returns their descriptors.
// Frame-series mode distributes frames frames across the files; event mode
// (frames zero) creates chunkCount files with no frame claim.
func DemoDataFiles(metaPath string, frames, chunkCount int) ([]nexgen.DataFile, error) {
	base := strings.TrimSuffix(metaPath, filepath.Ext(metaPath))

	var counts []int
	if frames > 0 {
		counts = splitFrames(frames)
	} else {
		if chunkCount < 1 {
			chunkCount = 1
		}
		counts = make([]int, chunkCount)
	}

	files := make([]nexgen.DataFile, len(counts))
	for i, n := range counts {
		path := fmt.Sprintf("%s_%06d.h5", base, i+1)
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create demo data file: %w", err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("create demo data file: %w", err)
		}
		files[i] = nexgen.DataFile{Path: path, Frames: n}
	}
	return files, nil
}

// splitFrames fills files up to the per-file cap, remainder last.
func splitFrames(total int) []int {
	n := (total + maxFramesPerFile - 1) / maxFramesPerFile
	counts := make([]int, n)
	for i := range counts {
		counts[i] = maxFramesPerFile
	}
	counts[n-1] = total - (n-1)*maxFramesPerFile
	return counts
}
