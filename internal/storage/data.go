package storage

import "path/filepath"

// Layout names the three files the tracker keeps in its working directory.
type Layout struct {
	dir          string
	lastModified string
	cache        string
	report       string
}

func NewLayout(dir, lastModified, cache, report string) Layout {
	return Layout{
		dir:          dir,
		lastModified: lastModified,
		cache:        cache,
		report:       report,
	}
}

func (l Layout) Dir() string {
	return l.dir
}

func (l Layout) LastModifiedPath() string {
	return filepath.Join(l.dir, l.lastModified)
}

func (l Layout) CachePath() string {
	return filepath.Join(l.dir, l.cache)
}

func (l Layout) ReportPath() string {
	return filepath.Join(l.dir, l.report)
}

// Paths lists the persisted files in commit order.
func (l Layout) Paths() []string {
	return []string{l.ReportPath(), l.LastModifiedPath(), l.CachePath()}
}
