// Package catalog loads the immutable calendar/need configuration.
// The catalog is constructed once at process entry and passed by reference
// into the components that consume it; nothing mutates it afterwards
package catalog

import (
	"os"

	perr "starpass/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

// DefaultKeyword is the sentinel entry used when no keyword match is
// confident enough. Every calendar must configure one
const DefaultKeyword = "default"

// Instance is one concrete need an event keyword expands into.
// Offsets are additive minutes applied to the raw event window;
// MaxLength of zero means uncapped
type Instance struct {
	ID          string `yaml:"id"`
	Slots       int    `yaml:"slots"`
	OffsetStart int    `yaml:"offset_start"`
	OffsetEnd   int    `yaml:"offset_end"`
	MaxLength   int    `yaml:"max_length"`
}

// Need is the ordered instance list one keyword expands into
type Need struct {
	Instances []Instance `yaml:"instances"`
}

// Calendar is one namespace's feed identity and keyword table
type Calendar struct {
	CalendarID string          `yaml:"calendar_id"`
	Queries    []string        `yaml:"queries"`
	Needs      map[string]Need `yaml:"needs"`
}

// Catalog is the whole configuration file
type Catalog struct {
	Calendars map[string]Calendar `yaml:"calendars"`
}

// Load reads and validates a catalog file
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "read catalog %q", path)
	}
	return Parse(b)
}

// Parse decodes and validates catalog bytes
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "decode catalog")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate enforces the structural invariants the matcher relies on:
// each calendar names a feed, has at least one keyword including the
// "default" fallback, and every instance has an id and positive slots
func (c *Catalog) Validate() error {
	if len(c.Calendars) == 0 {
		return perr.Configf("catalog has no calendars")
	}
	for ns, cal := range c.Calendars {
		if cal.CalendarID == "" {
			return perr.Configf("calendar %q: missing calendar_id", ns)
		}
		if len(cal.Needs) == 0 {
			return perr.Configf("calendar %q: no needs configured", ns)
		}
		if _, ok := cal.Needs[DefaultKeyword]; !ok {
			return perr.Configf("calendar %q: missing %q need entry", ns, DefaultKeyword)
		}
		for kw, need := range cal.Needs {
			if len(need.Instances) == 0 {
				return perr.Configf("calendar %q: need %q has no instances", ns, kw)
			}
			for i, inst := range need.Instances {
				if inst.ID == "" {
					return perr.Configf("calendar %q: need %q instance %d: missing id", ns, kw, i)
				}
				if inst.Slots <= 0 {
					return perr.Configf("calendar %q: need %q instance %d: slots must be positive", ns, kw, i)
				}
			}
		}
	}
	return nil
}

// Resolve returns the calendar for a namespace
func (c *Catalog) Resolve(namespace string) (Calendar, error) {
	cal, ok := c.Calendars[namespace]
	if !ok {
		return Calendar{}, perr.Configf("unknown calendar namespace %q", namespace)
	}
	return cal, nil
}
