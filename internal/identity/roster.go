package identity

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"ohelect/internal/util"
)

//go:embed ohio.yaml
var defaultRosterYAML []byte

type State struct {
	Name         string            `yaml:"name"`
	Code         string            `yaml:"code"`
	DataSource   string            `yaml:"data_source"`
	Counties     []string          `yaml:"counties"`
	CountyFixups map[string]string `yaml:"county_fixups"`
}

type RosterCandidate struct {
	Name  string   `yaml:"name"`
	Match []string `yaml:"match"`
}

// Matches reports whether a display name refers to this candidate. With
// match terms every term must appear; otherwise the full name must.
func (c RosterCandidate) Matches(display string) bool {
	if len(c.Match) == 0 {
		return c.Name != "" && strings.Contains(display, c.Name)
	}
	for _, term := range c.Match {
		if !strings.Contains(display, term) {
			return false
		}
	}
	return true
}

type OfficeRoster struct {
	Office     string            `yaml:"office"`
	Candidates []RosterCandidate `yaml:"candidates"`
}

type CongressRoster struct {
	Senate []string `yaml:"senate"`
	House  []string `yaml:"house"`
}

type Election struct {
	Offices  []OfficeRoster `yaml:"offices"`
	Congress CongressRoster `yaml:"congress"`
}

// Roster is the versioned reference data: state facts, party lookup and the
// per-year candidate rosters. Treat it as read-only once loaded.
type Roster struct {
	Version   int                 `yaml:"version"`
	State     State               `yaml:"state"`
	Parties   map[string]string   `yaml:"parties"`
	Elections map[string]Election `yaml:"elections"`

	countySet map[string]string
}

var (
	defaultOnce   sync.Once
	defaultRoster *Roster
	defaultErr    error
)

// Default returns the embedded roster, parsed once per process.
func Default() (*Roster, error) {
	defaultOnce.Do(func() {
		defaultRoster, defaultErr = Parse(defaultRosterYAML)
	})
	return defaultRoster, defaultErr
}

// Load reads a roster file, or the embedded one when path is empty.
func Load(path string) (*Roster, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Parse(blob)
}

func Parse(blob []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(blob, &r); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	for year := range r.Elections {
		if _, err := strconv.Atoi(year); err != nil {
			return nil, fmt.Errorf("roster election key %q is not a year", year)
		}
	}
	for _, office := range r.Offices() {
		if got, ok := CanonicalOffice(office); !ok || got != office {
			return nil, fmt.Errorf("roster office %q is not a canonical office", office)
		}
	}

	r.countySet = make(map[string]string, len(r.State.Counties))
	for _, c := range r.State.Counties {
		r.countySet[util.SquashKey(c)] = c
	}
	fixups := make(map[string]string, len(r.State.CountyFixups))
	for k, v := range r.State.CountyFixups {
		fixups[util.SquashKey(k)] = v
	}
	r.State.CountyFixups = fixups
	return &r, nil
}

// Offices lists every office named by any year's roster.
func (r *Roster) Offices() []string {
	seen := map[string]struct{}{}
	for _, e := range r.Elections {
		for _, o := range e.Offices {
			seen[o.Office] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// Years returns the roster's election years in ascending order.
func (r *Roster) Years() []string {
	out := make([]string, 0, len(r.Elections))
	for y := range r.Elections {
		out = append(out, y)
	}
	sort.Strings(out)
	return out
}

func (r *Roster) IsCounty(name string) bool {
	_, ok := r.countySet[util.SquashKey(name)]
	return ok
}

func (r *Roster) Counties() []string {
	return append([]string(nil), r.State.Counties...)
}
