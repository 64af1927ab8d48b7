package imagecache

import (
	"os"
	"path/filepath"
	"strings"
)

// Index maps lowercase photograph stems to filesystem paths, so rigs can
// reference images that were moved into a flat directory. Lossless formats
// take priority over JPEG for the same stem.
type Index struct {
	entries map[string]string
}

var indexedExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".tga": true, ".bmp": true,
}

// BuildIndex scans dir recursively for supported image files.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !indexedExts[ext] {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists {
			idx.entries[stem] = path
		} else if lossless(ext) && !lossless(strings.ToLower(filepath.Ext(existing))) {
			idx.entries[stem] = path
		}
		return nil
	})
	return idx
}

func lossless(ext string) bool {
	return ext == ".png" || ext == ".bmp" || ext == ".tga"
}

// ResolvePath returns the indexed path for an image reference, matching by
// stem regardless of the reference's directory or extension.
func (idx *Index) ResolvePath(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	return len(idx.entries)
}
