package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohelect/internal"
)

func TestParseManifest(t *testing.T) {
	blob := []byte(`
discover_openelections: true
sources:
  - year: "2022"
    format: sos
    path: 2022 Statewide Offices.csv
  - year: "2004"
    format: namelist
    path: 2004 Election Results.csv
    names: 2004 Candidate Name List.csv
  - year: "2010"
    format: manual
    path: /abs/2010 senate.csv
    office: U.S. Senate
`)
	m, err := ParseManifest(blob, "/data")
	require.NoError(t, err)
	require.Len(t, m.Sources, 3)
	assert.True(t, m.DiscoverOpenElections)
	assert.Equal(t, filepath.Join("/data", "2022 Statewide Offices.csv"), m.Sources[0].Path)
	assert.Equal(t, filepath.Join("/data", "2004 Candidate Name List.csv"), m.Sources[1].Names)
	assert.Equal(t, "/abs/2010 senate.csv", m.Sources[2].Path)
	assert.Equal(t, internal.FormatManual, m.Sources[2].Format)
}

func TestParseManifestRejects(t *testing.T) {
	cases := map[string]string{
		"bad year":        "sources:\n  - {year: \"20x2\", format: sos, path: a.csv}\n",
		"unknown format":  "sources:\n  - {year: \"2022\", format: pdf, path: a.pdf}\n",
		"namelist names":  "sources:\n  - {year: \"2004\", format: namelist, path: a.csv}\n",
		"manual office":   "sources:\n  - {year: \"2010\", format: manual, path: a.csv}\n",
		"missing path":    "sources:\n  - {year: \"2022\", format: sos}\n",
		"not yaml at all": "sources: [",
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest([]byte(blob), "")
			assert.Error(t, err)
		})
	}
}

func TestDiscoverOpenElections(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"20101102__oh__general__county.csv",
		"20081104__OH__general__precinct.csv",
		"2010__oh__general__consolidated.csv",
		"20101102__oh__primary.csv",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	found, err := DiscoverOpenElections(dir)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "2008", found[0].Year)
	assert.Equal(t, "2010", found[1].Year)
	assert.Equal(t, internal.FormatOpenElections, found[1].Format)

	m := Manifest{
		DiscoverOpenElections: true,
		Sources:               []SourceEntry{{Year: "2010", Format: internal.FormatOpenElections, Path: filepath.Join(dir, "20101102__oh__general__county.csv")}},
	}
	entries, err := m.Entries(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "listed files are not discovered twice")
}

func TestGroupByYear(t *testing.T) {
	years, byYear := GroupByYear([]SourceEntry{
		{Year: "2022", Path: "b"},
		{Year: "2004", Path: "a"},
		{Year: "2022", Path: "c"},
	})
	assert.Equal(t, []string{"2004", "2022"}, years)
	assert.Equal(t, "b", byYear["2022"][0].Path)
	assert.Equal(t, "c", byYear["2022"][1].Path)
}
