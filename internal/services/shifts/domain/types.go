// Package domain holds the core data structures for the shift pipeline
package domain

import (
	"bytes"
	"encoding/json"

	perr "starpass/internal/platform/errors"
)

// RawRow is one CSV row before transformation. Every field arrives as text;
// coercion happens in the transform step
type RawRow struct {
	NeedName  string
	NeedID    string
	StartDate string
	StartTime string
	Duration  string
	Slots     string
}

// ShiftRecord is one shift in its final wire shape. Start carries the
// canonical "YYYY-MM-DD HH:MM" form
type ShiftRecord struct {
	Start    string `json:"start" validate:"required,datetime=2006-01-02 15:04"`
	Duration int    `json:"duration" validate:"gt=0"`
	Slots    int    `json:"slots" validate:"gt=0"`
}

// ShiftsEnvelope is the request body for one create-shifts call
type ShiftsEnvelope struct {
	Shifts []ShiftRecord `json:"shifts" validate:"required,min=1,dive"`
}

// GroupedPayload maps need IDs to their shift envelopes while remembering
// first-insertion order, so uploads and reports are deterministic across runs
type GroupedPayload struct {
	order  []string
	groups map[string]*ShiftsEnvelope
}

// NewGroupedPayload returns an empty payload
func NewGroupedPayload() *GroupedPayload {
	return &GroupedPayload{groups: make(map[string]*ShiftsEnvelope)}
}

// Add appends a shift to its need's group, creating the group on first sight
func (p *GroupedPayload) Add(needID string, rec ShiftRecord) {
	env, ok := p.groups[needID]
	if !ok {
		env = &ShiftsEnvelope{}
		p.groups[needID] = env
		p.order = append(p.order, needID)
	}
	env.Shifts = append(env.Shifts, rec)
}

// NeedIDs returns the group keys in first-insertion order
func (p *GroupedPayload) NeedIDs() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Group returns the envelope for a need ID
func (p *GroupedPayload) Group(needID string) (ShiftsEnvelope, bool) {
	env, ok := p.groups[needID]
	if !ok {
		return ShiftsEnvelope{}, false
	}
	return *env, true
}

// Len returns the number of groups
func (p *GroupedPayload) Len() int { return len(p.order) }

// MarshalJSON renders groups in insertion order
func (p *GroupedPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range p.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(p.groups[id])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ValidationResult is the outcome of the pre-upload schema gate. Valid is
// computed exactly once, after grouping and before any upload attempt
type ValidationResult struct {
	Data  *GroupedPayload
	Valid bool
	Err   error
}

// Verbosity selects how much detail each per-group status block carries
type Verbosity int

const (
	// VerbosityBasic prints index, title, and shift count
	VerbosityBasic Verbosity = iota

	// VerbositySimple adds the target URL and one line per shift
	VerbositySimple

	// VerbosityDetailed adds the pretty-printed JSON body
	VerbosityDetailed
)

// String implements fmt.Stringer
func (v Verbosity) String() string {
	switch v {
	case VerbosityBasic:
		return "basic"
	case VerbositySimple:
		return "simple"
	case VerbosityDetailed:
		return "detailed"
	default:
		return "unknown"
	}
}

// ParseVerbosity is the single string-to-enum coercion point for the flag
// boundary
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case "basic":
		return VerbosityBasic, nil
	case "simple", "":
		return VerbositySimple, nil
	case "detailed":
		return VerbosityDetailed, nil
	default:
		return VerbositySimple, perr.Configf("unknown verbosity %q (want basic|simple|detailed)", s)
	}
}
