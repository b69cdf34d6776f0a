// Package registry provides concrete decoder registry implementations:
// a YAML snapshot registry fed by a device-side bridge, and an ffmpeg-backed
// registry for desktop and server hosts.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decoderd/decoderd/internal/mediacodec"
)

// snapshotFile is the on-disk shape of a decoder inventory dump.
type snapshotFile struct {
	Features snapshotFeatures `yaml:"features"`
	Decoders []snapshotCodec  `yaml:"decoders"`
}

type snapshotFeatures struct {
	HardwareFlag        bool `yaml:"hardware_flag"`
	LowLatency          bool `yaml:"low_latency"`
	ConstrainedProfiles bool `yaml:"constrained_profiles"`
	AV1Profiles         bool `yaml:"av1_profiles"`
}

type snapshotCodec struct {
	Name       string           `yaml:"name"`
	MimeTypes  []string         `yaml:"mime_types"`
	Encoder    bool             `yaml:"encoder"`
	Hardware   *bool            `yaml:"hardware"`
	LowLatency bool             `yaml:"low_latency"`
	Profiles   map[string][]int `yaml:"profiles"`
}

// SnapshotRegistry reads a decoder inventory from a YAML file exported by
// the device bridge. The file is re-read on every call so that the registry
// always reflects the latest exported inventory.
type SnapshotRegistry struct {
	path   string
	logger *slog.Logger
}

// NewSnapshotRegistry creates a registry over the snapshot file at path.
func NewSnapshotRegistry(path string, logger *slog.Logger) *SnapshotRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotRegistry{path: path, logger: logger}
}

// load reads and parses the snapshot file.
func (r *SnapshotRegistry) load() (*snapshotFile, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", r.path, err)
	}
	var snap snapshotFile
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", r.path, err)
	}
	return &snap, nil
}

// Decoders returns every component descriptor in the snapshot.
func (r *SnapshotRegistry) Decoders(_ context.Context) ([]mediacodec.Descriptor, error) {
	snap, err := r.load()
	if err != nil {
		return nil, err
	}

	descriptors := make([]mediacodec.Descriptor, 0, len(snap.Decoders))
	for _, c := range snap.Decoders {
		descriptors = append(descriptors, mediacodec.Descriptor{
			Name:       c.Name,
			MimeTypes:  c.MimeTypes,
			Encoder:    c.Encoder,
			Hardware:   c.Hardware,
			LowLatency: c.LowLatency,
			Profiles:   c.Profiles,
		})
	}
	return descriptors, nil
}

// DecoderProfiles returns the profile codes the named component declares for
// a MIME type. The name must match exactly, as platform decoder lookup does.
func (r *SnapshotRegistry) DecoderProfiles(_ context.Context, name, mimeType string) ([]int, error) {
	snap, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, c := range snap.Decoders {
		if c.Encoder || c.Name != name {
			continue
		}
		d := mediacodec.Descriptor{Name: c.Name, Profiles: c.Profiles}
		return d.ProfilesFor(mimeType), nil
	}
	return nil, fmt.Errorf("decoder %q not present in snapshot", name)
}

// Features reports the capability signals recorded in the snapshot. A
// snapshot that cannot be read reports no signals, which degrades selection
// to the documented heuristics rather than failing.
func (r *SnapshotRegistry) Features(ctx context.Context) mediacodec.Features {
	snap, err := r.load()
	if err != nil {
		r.logger.DebugContext(ctx, "snapshot features unavailable",
			slog.String("error", err.Error()),
		)
		return mediacodec.Features{}
	}
	return mediacodec.Features{
		HardwareFlag:        snap.Features.HardwareFlag,
		LowLatency:          snap.Features.LowLatency,
		ConstrainedProfiles: snap.Features.ConstrainedProfiles,
		AV1Profiles:         snap.Features.AV1Profiles,
	}
}
