package config

import (
	"fmt"
	"sort"

	"antmart/internal/common"
)

// Logical dataset destinations
const (
	DestRawBatch       = "raw_batch"
	DestRawEventsSeed  = "raw_events_seed"
	DestRawEventsMicro = "raw_events_micro"
	DestSeeds          = "seeds"
)

// Layout maps logical destinations to absolute directories
type Layout struct {
	BaseDir string
	dirs    map[string]string
}

// Layout resolves every configured path to an absolute directory
func (p Paths) Layout() (*Layout, error) {
	base, err := common.CleanPath(p.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("paths.base_dir: %w", err)
	}

	l := &Layout{BaseDir: base, dirs: make(map[string]string, 4)}
	for name, rel := range map[string]string{
		DestRawBatch:       p.RawBatch,
		DestRawEventsSeed:  p.RawEventsSeed,
		DestRawEventsMicro: p.RawEventsMicro,
		DestSeeds:          p.Seeds,
	} {
		if rel == "" {
			return nil, fmt.Errorf("paths.%s is empty", name)
		}
		abs, err := common.ResolveUnder(base, rel)
		if err != nil {
			return nil, fmt.Errorf("paths.%s: %w", name, err)
		}
		l.dirs[name] = abs
	}
	return l, nil
}

// Dir returns the directory for a logical destination
func (l *Layout) Dir(dest string) (string, error) {
	dir, ok := l.dirs[dest]
	if !ok {
		return "", fmt.Errorf("unknown destination %q", dest)
	}
	return dir, nil
}

// MustDir is Dir for the fixed destination names above
func (l *Layout) MustDir(dest string) string {
	dir, err := l.Dir(dest)
	if err != nil {
		panic(err)
	}
	return dir
}

// Destinations lists the known destination names in sorted order
func (l *Layout) Destinations() []string {
	names := make([]string, 0, len(l.dirs))
	for name := range l.dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvedPath resolves a file-backed store path against BaseDir
func (w Warehouse) ResolvedPath(baseDir string) (string, error) {
	return common.ResolveUnder(baseDir, w.Path)
}
