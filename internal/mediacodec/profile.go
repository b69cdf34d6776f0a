// Package mediacodec implements the decoder selection policy for decoderd.
// It enumerates the installed video decoders reported by a Registry, scores
// each (decoder, profile) pair against a profile preference table, and picks
// the best candidate for a requested MIME type.
package mediacodec

// Profile codes use the Android MediaCodecInfo.CodecProfileLevel constant
// values, since that is what the device-side bridge reports on the wire.

// H.264/AVC profile codes.
const (
	AVCProfileBaseline            = 0x01
	AVCProfileMain                = 0x02
	AVCProfileExtended            = 0x04
	AVCProfileHigh                = 0x08
	AVCProfileHigh10              = 0x10
	AVCProfileHigh422             = 0x20
	AVCProfileHigh444             = 0x40
	AVCProfileConstrainedBaseline = 0x10000
	AVCProfileConstrainedHigh     = 0x80000
)

// HEVC profile codes.
const (
	HEVCProfileMain   = 0x01
	HEVCProfileMain10 = 0x02
)

// AV1 profile codes.
const (
	AV1ProfileMain8           = 0x1
	AV1ProfileMain10          = 0x2
	AV1ProfileMain10HDR10     = 0x1000
	AV1ProfileMain10HDR10Plus = 0x2000
)

// profileNames maps known profile codes to human-readable names, per family.
var profileNames = map[Family]map[int]string{
	FamilyH264: {
		AVCProfileBaseline:            "baseline",
		AVCProfileMain:                "main",
		AVCProfileExtended:            "extended",
		AVCProfileHigh:                "high",
		AVCProfileHigh10:              "high10",
		AVCProfileHigh422:             "high422",
		AVCProfileHigh444:             "high444",
		AVCProfileConstrainedBaseline: "constrained-baseline",
		AVCProfileConstrainedHigh:     "constrained-high",
	},
	FamilyHEVC: {
		HEVCProfileMain:   "main",
		HEVCProfileMain10: "main10",
	},
	FamilyAV1: {
		AV1ProfileMain8:           "main8",
		AV1ProfileMain10:          "main10",
		AV1ProfileMain10HDR10:     "main10-hdr10",
		AV1ProfileMain10HDR10Plus: "main10-hdr10plus",
	},
}

// ProfileName returns a human-readable name for a profile code within a
// codec family, or the empty string if the code is unknown.
func ProfileName(family Family, profile int) string {
	names, ok := profileNames[family]
	if !ok {
		return ""
	}
	return names[profile]
}
