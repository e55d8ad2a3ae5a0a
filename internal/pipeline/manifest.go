package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"ohelect/internal"
)

var (
	reYear              = regexp.MustCompile(`^\d{4}$`)
	reOpenElectionsFile = regexp.MustCompile(`^(\d{4})\d{4}__[oO][hH]__general.*\.csv$`)
)

// SourceEntry is one raw input listed in the manifest.
type SourceEntry struct {
	Year     string                `yaml:"year"`
	Format   internal.SourceFormat `yaml:"format"`
	Path     string                `yaml:"path"`
	Names    string                `yaml:"names,omitempty"`
	Office   string                `yaml:"office,omitempty"`
	District string                `yaml:"district,omitempty"`
}

type Manifest struct {
	Sources               []SourceEntry `yaml:"sources"`
	DiscoverOpenElections bool          `yaml:"discover_openelections"`
}

// LoadManifest reads sources.yaml. Relative paths are taken from dataDir.
func LoadManifest(path, dataDir string) (Manifest, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(blob, dataDir)
}

func ParseManifest(blob []byte, dataDir string) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(blob, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	for i := range m.Sources {
		src := &m.Sources[i]
		src.Year = strings.TrimSpace(src.Year)
		if !reYear.MatchString(src.Year) {
			return Manifest{}, fmt.Errorf("manifest source %d: year %q is not a year", i, src.Year)
		}
		switch src.Format {
		case internal.FormatSOS, internal.FormatOpenElections:
		case internal.FormatNameList:
			if src.Names == "" {
				return Manifest{}, fmt.Errorf("manifest source %d: namelist needs names", i)
			}
		case internal.FormatManual:
			if src.Office == "" {
				return Manifest{}, fmt.Errorf("manifest source %d: manual needs office", i)
			}
		default:
			return Manifest{}, fmt.Errorf("manifest source %d: unknown format %q", i, src.Format)
		}
		if strings.TrimSpace(src.Path) == "" {
			return Manifest{}, fmt.Errorf("manifest source %d: path is required", i)
		}
		src.Path = resolvePath(dataDir, src.Path)
		if src.Names != "" {
			src.Names = resolvePath(dataDir, src.Names)
		}
	}
	return m, nil
}

// Entries returns the listed sources plus, when enabled, the OpenElections
// files found in dataDir that the manifest does not already list.
func (m Manifest) Entries(dataDir string) ([]SourceEntry, error) {
	out := append([]SourceEntry(nil), m.Sources...)
	if !m.DiscoverOpenElections {
		return out, nil
	}
	listed := map[string]struct{}{}
	for _, s := range out {
		listed[filepath.Clean(s.Path)] = struct{}{}
	}
	found, err := DiscoverOpenElections(dataDir)
	if err != nil {
		return nil, err
	}
	for _, s := range found {
		if _, ok := listed[filepath.Clean(s.Path)]; ok {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// DiscoverOpenElections lists YYYYMMDD__oh__general*.csv files in dir,
// taking the year from the file name.
func DiscoverOpenElections(dir string) ([]SourceEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []SourceEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := reOpenElectionsFile.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		out = append(out, SourceEntry{
			Year:   m[1],
			Format: internal.FormatOpenElections,
			Path:   filepath.Join(dir, entry.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// GroupByYear buckets sources by year in ascending year order, keeping
// manifest order within a year.
func GroupByYear(sources []SourceEntry) ([]string, map[string][]SourceEntry) {
	byYear := map[string][]SourceEntry{}
	var years []string
	for _, s := range sources {
		if _, ok := byYear[s.Year]; !ok {
			years = append(years, s.Year)
		}
		byYear[s.Year] = append(byYear[s.Year], s)
	}
	sort.Strings(years)
	return years, byYear
}

func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
