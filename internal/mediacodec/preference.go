package mediacodec

import (
	"math"
	"sync"
)

// PreferenceTable maps a profile code to an integer rank. Lower ranks are
// preferred. A profile absent from the table ranks last but is never
// rejected outright.
type PreferenceTable map[int]int

// Rank returns the configured rank for a profile code, or math.MaxInt for
// profiles the table does not mention.
func (t PreferenceTable) Rank(profile int) int {
	if rank, ok := t[profile]; ok {
		return rank
	}
	return math.MaxInt
}

// Options configures preference table construction.
type Options struct {
	// PreferBaseline flips the Baseline/High pair for H.264: when true,
	// Baseline ranks best; when false (the default), High does. Exactly one
	// of the pair is always best-ranked. This is a static configuration
	// input, not runtime-mutable.
	PreferBaseline bool
	// Features gates the table entries that depend on platform signals
	// (constrained AVC variants, AV1 profile reporting).
	Features Features
}

// Preferences holds the per-family profile preference tables. Built once
// and immutable thereafter.
type Preferences struct {
	tables map[Family]PreferenceTable
	opts   Options
}

// NewPreferences builds the preference tables for all codec families.
// Construction cannot fail; missing platform capabilities simply yield
// smaller tables.
func NewPreferences(opts Options) *Preferences {
	h264 := PreferenceTable{
		AVCProfileMain:     11,
		AVCProfileExtended: 12,
		AVCProfileHigh10:   13,
		AVCProfileHigh422:  14,
		AVCProfileHigh444:  15,
	}
	baseline, high := 10, 0
	if opts.PreferBaseline {
		baseline, high = 0, 10
	}
	h264[AVCProfileBaseline] = baseline
	h264[AVCProfileHigh] = high
	if opts.Features.ConstrainedProfiles {
		// A constrained variant always wins a tie against its parent.
		h264[AVCProfileConstrainedBaseline] = baseline - 1
		h264[AVCProfileConstrainedHigh] = high - 1
	}

	hevc := PreferenceTable{
		HEVCProfileMain:   0,
		HEVCProfileMain10: 1,
	}

	// Prefer the cheapest AV1 profile that still plays the content; stream
	// profile matching is handled elsewhere. Without AV1 profile reporting
	// the table stays empty and every candidate ranks equally on profile.
	av1 := PreferenceTable{}
	if opts.Features.AV1Profiles {
		av1[AV1ProfileMain8] = 0
		av1[AV1ProfileMain10] = 1
		av1[AV1ProfileMain10HDR10] = 2
		av1[AV1ProfileMain10HDR10Plus] = 3
	}

	return &Preferences{
		tables: map[Family]PreferenceTable{
			FamilyH264: h264,
			FamilyHEVC: hevc,
			FamilyAV1:  av1,
		},
		opts: opts,
	}
}

// Table returns the preference table for a codec family. The second return
// is false for families the selector does not know.
func (p *Preferences) Table(family Family) (PreferenceTable, bool) {
	table, ok := p.tables[family]
	return table, ok
}

// Options returns the options the tables were built with.
func (p *Preferences) Options() Options {
	return p.opts
}

var (
	defaultPrefsOnce sync.Once
	defaultPrefs     *Preferences
)

// DefaultPreferences returns the process-wide preference tables, built
// lazily on first use with all capability signals enabled and High
// preferred over Baseline. Concurrent first callers observe exactly one
// completed construction.
func DefaultPreferences() *Preferences {
	defaultPrefsOnce.Do(func() {
		defaultPrefs = NewPreferences(Options{Features: AllFeatures()})
	})
	return defaultPrefs
}
