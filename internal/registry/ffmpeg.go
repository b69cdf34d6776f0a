package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/decoderd/decoderd/internal/mediacodec"
	"github.com/decoderd/decoderd/internal/util"
)

// DefaultProbeTimeout bounds a single ffmpeg invocation.
const DefaultProbeTimeout = 10 * time.Second

// hwDecoderSuffixes mark ffmpeg decoders backed by dedicated decode hardware.
var hwDecoderSuffixes = []string{
	"_cuvid", "_qsv", "_v4l2m2m", "_mediacodec", "_mmal", "_rkmpp",
}

// ffmpegFamilies maps ffmpeg decoder base names to codec families. Only the
// families the selector knows are listed; everything else is ignored.
var ffmpegFamilies = map[string]mediacodec.Family{
	"h264":        mediacodec.FamilyH264,
	"libopenh264": mediacodec.FamilyH264,
	"hevc":        mediacodec.FamilyHEVC,
	"av1":         mediacodec.FamilyAV1,
	"libdav1d":    mediacodec.FamilyAV1,
	"libaom-av1":  mediacodec.FamilyAV1,
}

// familyProfiles is the full profile set per family. ffmpeg's software
// decoders decode every profile of their codec, so the registry reports the
// complete set instead of probing per decoder.
var familyProfiles = map[mediacodec.Family][]int{
	mediacodec.FamilyH264: {
		mediacodec.AVCProfileBaseline,
		mediacodec.AVCProfileConstrainedBaseline,
		mediacodec.AVCProfileMain,
		mediacodec.AVCProfileExtended,
		mediacodec.AVCProfileHigh,
		mediacodec.AVCProfileConstrainedHigh,
		mediacodec.AVCProfileHigh10,
		mediacodec.AVCProfileHigh422,
		mediacodec.AVCProfileHigh444,
	},
	mediacodec.FamilyHEVC: {
		mediacodec.HEVCProfileMain,
		mediacodec.HEVCProfileMain10,
	},
	mediacodec.FamilyAV1: {
		mediacodec.AV1ProfileMain8,
		mediacodec.AV1ProfileMain10,
		mediacodec.AV1ProfileMain10HDR10,
		mediacodec.AV1ProfileMain10HDR10Plus,
	},
}

// FFmpegRegistry enumerates decoders from a local ffmpeg binary. The binary
// is invoked fresh on every call; nothing is cached between calls.
type FFmpegRegistry struct {
	ffmpegPath string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewFFmpegRegistry creates a registry over the ffmpeg binary at path.
// An empty path resolves ffmpeg via FFMPEG_PATH, the working directory,
// then PATH; if nothing is found the bare name is kept and every probe
// fails, which selection reports as no decoders available.
func NewFFmpegRegistry(ffmpegPath string, timeout time.Duration, logger *slog.Logger) *FFmpegRegistry {
	if ffmpegPath == "" {
		resolved, err := util.FindBinary("ffmpeg", "FFMPEG_PATH")
		if err != nil {
			resolved = "ffmpeg"
		}
		ffmpegPath = resolved
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpegRegistry{ffmpegPath: ffmpegPath, timeout: timeout, logger: logger}
}

// Decoders runs `ffmpeg -decoders` and returns a descriptor for every video
// decoder belonging to a known codec family.
func (r *FFmpegRegistry) Decoders(ctx context.Context) ([]mediacodec.Descriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.ffmpegPath, "-decoders", "-hide_banner")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("listing ffmpeg decoders: %w", err)
	}

	return parseDecoders(string(output)), nil
}

// DecoderProfiles returns the profile set for a named ffmpeg decoder, after
// confirming the decoder exists and handles the requested MIME type.
func (r *FFmpegRegistry) DecoderProfiles(ctx context.Context, name, mimeType string) ([]int, error) {
	descriptors, err := r.Decoders(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range descriptors {
		if d.Name == name {
			return d.ProfilesFor(mimeType), nil
		}
	}
	return nil, fmt.Errorf("ffmpeg decoder %q not found", name)
}

// Features reports ffmpeg's signal coverage: the hardware classification is
// derived from decoder naming (authoritative for ffmpeg builds), profile
// reporting is complete, and no low-latency feature flag exists.
func (r *FFmpegRegistry) Features(_ context.Context) mediacodec.Features {
	return mediacodec.Features{
		HardwareFlag:        true,
		LowLatency:          false,
		ConstrainedProfiles: true,
		AV1Profiles:         true,
	}
}

// parseDecoders parses `ffmpeg -decoders -hide_banner` output. The table
// starts after a dashed separator line; each row is
// " V....D name  description" with the first capability flag marking the
// media type.
func parseDecoders(output string) []mediacodec.Descriptor {
	var descriptors []mediacodec.Descriptor
	inTable := false

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inTable {
			if strings.HasPrefix(trimmed, "---") {
				inTable = true
			}
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}
		caps, name := fields[0], fields[1]
		if !strings.HasPrefix(caps, "V") {
			continue
		}

		family, ok := decoderFamily(name)
		if !ok {
			continue
		}
		hardware := isHardwareDecoderName(name)
		descriptors = append(descriptors, mediacodec.Descriptor{
			Name:      name,
			MimeTypes: []string{mediacodec.CanonicalMimeType(family)},
			Hardware:  &hardware,
			Profiles: map[string][]int{
				mediacodec.CanonicalMimeType(family): familyProfiles[family],
			},
		})
	}
	return descriptors
}

// decoderFamily maps an ffmpeg decoder name to its codec family, stripping
// any hardware wrapper suffix.
func decoderFamily(name string) (mediacodec.Family, bool) {
	if family, ok := ffmpegFamilies[name]; ok {
		return family, true
	}
	if idx := strings.Index(name, "_"); idx > 0 {
		if family, ok := ffmpegFamilies[name[:idx]]; ok {
			return family, true
		}
	}
	return "", false
}

// isHardwareDecoderName reports whether an ffmpeg decoder name denotes a
// hardware-backed decoder.
func isHardwareDecoderName(name string) bool {
	for _, suffix := range hwDecoderSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
