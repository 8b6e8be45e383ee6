package j3d

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ModelExts are the extensions Scan picks up.
var ModelExts = []string{".bmd", ".bdl", BundleExt}

// IsModel reports whether path has one of ModelExts.
func IsModel(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ModelExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan walks dir and returns every model file below it, sorted.
func Scan(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !IsModel(path) {
			return nil
		}
		if info.Size() < HeaderSize {
			return fmt.Errorf("%s: too small to be a model (%d bytes)", path, info.Size())
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
