// Package registry discovers saved molecules on disk.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"qchemd/internal/common/fsutil"
	"qchemd/pkg/types"
)

// HDF5Scanner lists *.hdf5 and *.h5 files in a directory, non-recursively.
type HDF5Scanner struct {
	exts []string
}

// NewHDF5Scanner returns a scanner matching .hdf5 and .h5, case-insensitively.
func NewHDF5Scanner() *HDF5Scanner {
	return &HDF5Scanner{exts: []string{".hdf5", ".h5"}}
}

func (s *HDF5Scanner) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan returns the molecule files in dir sorted by name. Name is the file
// name, usable as an hdf5_input relative to dir; Path is absolute.
func (s *HDF5Scanner) Scan(dir string) ([]types.MoleculeFile, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if !fsutil.PathExists(abs) {
		return nil, fmt.Errorf("molecules dir %s: %w", abs, os.ErrNotExist)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []types.MoleculeFile
	for _, e := range entries {
		if e.IsDir() || !s.matches(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed between ReadDir and Info
		}
		out = append(out, types.MoleculeFile{
			Name: e.Name(),
			Path: filepath.Join(abs, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// LoadDir scans dir with the default HDF5Scanner.
func LoadDir(dir string) ([]types.MoleculeFile, error) {
	return NewHDF5Scanner().Scan(dir)
}
