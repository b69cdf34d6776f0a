package mediacodec

import "context"

// Descriptor describes one installed codec component as reported by a
// Registry. It mirrors the platform decoder registry shape: one descriptor
// per component, declaring the MIME types it handles and its per-type
// capabilities.
type Descriptor struct {
	// Name is the platform-assigned component identifier.
	Name string
	// MimeTypes lists the MIME identifiers the component declares support for.
	MimeTypes []string
	// Encoder is true for encode components, which selection always skips.
	Encoder bool
	// Hardware reports the platform's own hardware/software classification.
	// Nil means the registry cannot report the signal and the name heuristic
	// applies instead.
	Hardware *bool
	// LowLatency is true when the component advertises a low-latency
	// operating feature. Always false on registries that cannot report it.
	LowLatency bool
	// Profiles maps a lowercase MIME identifier to the profile codes the
	// component supports for that type.
	Profiles map[string][]int
}

// ProfilesFor returns the profile codes the descriptor declares for the
// given MIME type, matched case-insensitively against the Profiles keys.
func (d Descriptor) ProfilesFor(mimeType string) []int {
	for mime, profiles := range d.Profiles {
		if MimeTypeMatch(mime, mimeType) {
			return profiles
		}
	}
	return nil
}

// SupportsMimeType reports whether the descriptor declares the MIME type.
func (d Descriptor) SupportsMimeType(mimeType string) bool {
	for _, m := range d.MimeTypes {
		if MimeTypeMatch(m, mimeType) {
			return true
		}
	}
	return false
}

// Features describes which capability signals a registry (or the platform
// behind it) is able to report. Signals a platform cannot report degrade to
// their documented fallbacks; they never exclude a decoder.
type Features struct {
	// HardwareFlag: the registry reports the platform's own hardware/software
	// classification. When false the software-name heuristic applies.
	HardwareFlag bool
	// LowLatency: the registry can report the low-latency feature flag.
	LowLatency bool
	// ConstrainedProfiles: the platform distinguishes the constrained AVC
	// profile variants.
	ConstrainedProfiles bool
	// AV1Profiles: the platform reports AV1 profile codes.
	AV1Profiles bool
}

// AllFeatures returns a Features value with every signal available.
func AllFeatures() Features {
	return Features{
		HardwareFlag:        true,
		LowLatency:          true,
		ConstrainedProfiles: true,
		AV1Profiles:         true,
	}
}

// Registry is the injectable boundary to the platform decoder registry.
// Implementations must treat the underlying inventory as a read-only
// resource snapshotted fresh on every call; the selector never caches
// results across calls.
type Registry interface {
	// Decoders returns every installed codec component descriptor,
	// including encoders (callers filter on Descriptor.Encoder).
	Decoders(ctx context.Context) ([]Descriptor, error)

	// DecoderProfiles queries one named component's supported profile codes
	// for a MIME type. Implementations return an error for unknown names or
	// instantiation faults; callers collapse any fault to "profiles
	// unavailable".
	DecoderProfiles(ctx context.Context, name, mimeType string) ([]int, error)

	// Features reports which capability signals this registry can provide.
	Features(ctx context.Context) Features
}
