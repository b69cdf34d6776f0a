package mediacodec

import "strings"

// Family represents a supported video codec family.
type Family string

// Codec family constants.
const (
	FamilyH264 Family = "h264"
	FamilyHEVC Family = "hevc"
	FamilyAV1  Family = "av1"
)

// String returns the string representation of the codec family.
func (f Family) String() string {
	return string(f)
}

// familyMimeTypes maps each family to the MIME identifiers it is known by.
// The first entry is the canonical platform MIME type.
var familyMimeTypes = map[Family][]string{
	FamilyH264: {"video/avc", "video/h264"},
	FamilyHEVC: {"video/hevc", "video/h265"},
	FamilyAV1:  {"video/av01", "video/av1"},
}

// mimeIndex maps lowercase MIME identifiers to their codec family.
var mimeIndex map[string]Family

func init() {
	mimeIndex = make(map[string]Family)
	for family, mimes := range familyMimeTypes {
		for _, m := range mimes {
			mimeIndex[strings.ToLower(m)] = family
		}
	}
}

// ParseFamily maps a MIME-style codec identifier to its codec family.
// Matching is case-insensitive. Returns false for unrecognized or empty
// identifiers; an unknown MIME type is "nothing to choose", not an error.
func ParseFamily(mimeType string) (Family, bool) {
	if mimeType == "" {
		return "", false
	}
	family, ok := mimeIndex[strings.ToLower(strings.TrimSpace(mimeType))]
	return family, ok
}

// CanonicalMimeType returns the canonical platform MIME type for a family.
func CanonicalMimeType(family Family) string {
	mimes, ok := familyMimeTypes[family]
	if !ok || len(mimes) == 0 {
		return ""
	}
	return mimes[0]
}

// MimeTypeMatch reports whether two MIME identifiers refer to the same codec
// type. Identifiers match when they are equal ignoring case, or when both are
// known aliases of the same codec family.
func MimeTypeMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return true
	}
	fa, aok := ParseFamily(a)
	fb, bok := ParseFamily(b)
	return aok && bok && fa == fb
}
