package mediacodec

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

// Entry is one (decoder, supported-profile) pair discovered during
// enumeration. A decoder supporting several profiles for the same MIME type
// contributes one entry per profile: selection ranks pairs, not decoders,
// because a decoder's suitability varies by profile rank.
type Entry struct {
	Name       string `json:"name"`
	Hardware   bool   `json:"hardware"`
	LowLatency bool   `json:"low_latency"`
	Profile    int    `json:"profile"`
}

// softwarePrefixes are component name prefixes of known software decoder
// vendors. Used only when the registry cannot report the platform's own
// hardware/software classification. An unrecognized software decoder is
// spuriously counted as hardware under this heuristic; that skews ranking
// but never capability, which is acceptable.
var softwarePrefixes = []string{
	"omx.google.",
	"c2.android.",
	"c2.google.",
	"omx.ffmpeg.",
	"omx.qcom.video.decoder.hevcswvdec",
	"omx.sec.avc.sw.dec",
	"omx.sec.hevc.sw.dec",
}

// isSoftwareName reports whether a decoder name matches a known software
// decoder naming pattern.
func isSoftwareName(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range softwarePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Selector implements decoder selection over an injected Registry.
// Both public operations are synchronous queries with no side effects on
// the registry or the decoders themselves, and never return errors across
// this boundary: every failure mode surfaces as an absent result.
type Selector struct {
	registry Registry
	prefs    *Preferences
	logger   *slog.Logger
}

// NewSelector creates a Selector. A nil prefs uses DefaultPreferences; a
// nil logger uses slog.Default.
func NewSelector(registry Registry, prefs *Preferences, logger *slog.Logger) *Selector {
	if prefs == nil {
		prefs = DefaultPreferences()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		registry: registry,
		prefs:    prefs,
		logger:   logger,
	}
}

// Enumerate returns every installed decoder that declares support for the
// MIME type, expanded into one Entry per supported profile. The list is
// derived fresh on every call and reflects current decoder availability.
func (s *Selector) Enumerate(ctx context.Context, mimeType string) []Entry {
	descriptors, err := s.registry.Decoders(ctx)
	if err != nil {
		s.logger.DebugContext(ctx, "decoder enumeration failed",
			slog.String("mime_type", mimeType),
			slog.String("error", err.Error()),
		)
		return nil
	}

	features := s.registry.Features(ctx)

	var entries []Entry
	for _, d := range descriptors {
		if d.Encoder || !d.SupportsMimeType(mimeType) {
			continue
		}

		hardware := s.classifyHardware(d, features)
		lowLatency := features.LowLatency && d.LowLatency

		profiles := d.ProfilesFor(mimeType)
		if len(profiles) == 0 {
			// No profile information: still a candidate, ranked purely by the
			// hardware/latency criteria.
			entries = append(entries, Entry{
				Name:       d.Name,
				Hardware:   hardware,
				LowLatency: lowLatency,
			})
			continue
		}
		for _, profile := range profiles {
			entries = append(entries, Entry{
				Name:       d.Name,
				Hardware:   hardware,
				LowLatency: lowLatency,
				Profile:    profile,
			})
		}
	}
	return entries
}

// classifyHardware determines hardware acceleration for a descriptor,
// trusting the platform flag when available and falling back to the
// software-name heuristic otherwise.
func (s *Selector) classifyHardware(d Descriptor, features Features) bool {
	if features.HardwareFlag && d.Hardware != nil {
		return *d.Hardware
	}
	return !isSoftwareName(d.Name)
}

// ChooseDecoder picks the best installed decoder for a MIME type.
//
// Candidates sort ascending by a composite key: low-latency-capable first,
// then hardware-accelerated, then profile rank from the preference table
// (missing profile ranks last). Responsiveness and hardware efficiency
// dominate profile subtleties: a hardware low-latency decoder with a
// less-preferred profile still beats a software decoder with the ideal one.
//
// Returns false for unrecognized MIME types and when no capable decoder is
// installed; neither is an error.
func (s *Selector) ChooseDecoder(ctx context.Context, mimeType string) (string, bool) {
	entry, ok := s.ChooseEntry(ctx, mimeType)
	if !ok {
		return "", false
	}
	return entry.Name, true
}

// ChooseEntry is ChooseDecoder returning the full winning entry, for
// callers that record the selection outcome.
func (s *Selector) ChooseEntry(ctx context.Context, mimeType string) (Entry, bool) {
	entries := s.Rank(ctx, mimeType)
	if len(entries) == 0 {
		return Entry{}, false
	}

	family, _ := ParseFamily(mimeType)
	chosen := entries[0]
	s.logger.DebugContext(ctx, "decoder chosen",
		slog.String("mime_type", mimeType),
		slog.String("decoder", chosen.Name),
		slog.String("profile", ProfileName(family, chosen.Profile)),
		slog.Bool("hardware", chosen.Hardware),
		slog.Bool("low_latency", chosen.LowLatency),
	)
	return chosen, true
}

// Rank returns the MIME type's candidate entries in preference order, most
// preferred first. An unrecognized MIME type or a family with no preference
// table yields an empty list.
func (s *Selector) Rank(ctx context.Context, mimeType string) []Entry {
	family, ok := ParseFamily(mimeType)
	if !ok {
		return nil
	}
	table, ok := s.prefs.Table(family)
	if !ok {
		return nil
	}

	entries := s.Enumerate(ctx, mimeType)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.LowLatency != b.LowLatency {
			return a.LowLatency
		}
		if a.Hardware != b.Hardware {
			return a.Hardware
		}
		return table.Rank(a.Profile) < table.Rank(b.Profile)
	})
	return entries
}

// ListSupportedProfiles queries a named decoder's supported profile codes
// for a MIME type. Any instantiation fault (unknown name, resource limits)
// collapses to an absent result; callers cannot act differently on
// different causes, so no fault detail is surfaced.
func (s *Selector) ListSupportedProfiles(ctx context.Context, name, mimeType string) ([]int, bool) {
	profiles, err := s.registry.DecoderProfiles(ctx, name, mimeType)
	if err != nil {
		s.logger.DebugContext(ctx, "decoder profile query failed",
			slog.String("decoder", name),
			slog.String("mime_type", mimeType),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	if len(profiles) == 0 {
		return nil, false
	}
	return profiles, true
}
