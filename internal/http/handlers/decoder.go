package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/decoderd/decoderd/internal/mediacodec"
	"github.com/decoderd/decoderd/internal/service"
)

// DecoderHandler handles decoder selection API endpoints.
type DecoderHandler struct {
	svc *service.SelectionService
}

// NewDecoderHandler creates a new decoder handler.
func NewDecoderHandler(svc *service.SelectionService) *DecoderHandler {
	return &DecoderHandler{svc: svc}
}

// Register registers the decoder routes with the API.
func (h *DecoderHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listDecoders",
		Method:      "GET",
		Path:        "/api/v1/decoders",
		Summary:     "List decoders",
		Description: "Returns every installed decoder supporting the MIME type, one entry per supported profile, in preference order",
		Tags:        []string{"Decoders"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "chooseDecoder",
		Method:      "GET",
		Path:        "/api/v1/decoders/choice",
		Summary:     "Choose decoder",
		Description: "Returns the most preferred installed decoder for the MIME type",
		Tags:        []string{"Decoders"},
	}, h.Choose)

	huma.Register(api, huma.Operation{
		OperationID: "listDecoderProfiles",
		Method:      "GET",
		Path:        "/api/v1/decoders/{name}/profiles",
		Summary:     "List decoder profiles",
		Description: "Returns the profile codes a named decoder supports for the MIME type",
		Tags:        []string{"Decoders"},
	}, h.Profiles)
}

// DecoderEntryResponse represents one (decoder, profile) candidate in API responses.
type DecoderEntryResponse struct {
	Name        string `json:"name" doc:"Decoder component name"`
	Hardware    bool   `json:"hardware" doc:"Hardware accelerated"`
	LowLatency  bool   `json:"low_latency" doc:"Supports low-latency decoding"`
	Profile     int    `json:"profile" doc:"Codec profile code, 0 when unreported"`
	ProfileName string `json:"profile_name,omitempty" doc:"Human-readable profile name"`
}

func entryResponse(mimeType string, e mediacodec.Entry) DecoderEntryResponse {
	family, _ := mediacodec.ParseFamily(mimeType)
	return DecoderEntryResponse{
		Name:        e.Name,
		Hardware:    e.Hardware,
		LowLatency:  e.LowLatency,
		Profile:     e.Profile,
		ProfileName: mediacodec.ProfileName(family, e.Profile),
	}
}

// ListDecodersInput is the input for listing decoders.
type ListDecodersInput struct {
	Mime string `query:"mime" doc:"MIME type, e.g. video/avc" required:"true"`
}

// ListDecodersOutput is the output for listing decoders.
type ListDecodersOutput struct {
	Body struct {
		Decoders []DecoderEntryResponse `json:"decoders"`
		Count    int                    `json:"count"`
	}
}

// List returns all decoder candidates for a MIME type.
func (h *DecoderHandler) List(ctx context.Context, input *ListDecodersInput) (*ListDecodersOutput, error) {
	entries := h.svc.ListDecoders(ctx, input.Mime)

	resp := &ListDecodersOutput{}
	resp.Body.Decoders = make([]DecoderEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp.Body.Decoders = append(resp.Body.Decoders, entryResponse(input.Mime, e))
	}
	resp.Body.Count = len(entries)
	return resp, nil
}

// ChooseDecoderInput is the input for choosing a decoder.
type ChooseDecoderInput struct {
	Mime string `query:"mime" doc:"MIME type, e.g. video/avc" required:"true"`
}

// ChooseDecoderOutput is the output for choosing a decoder.
type ChooseDecoderOutput struct {
	Body DecoderEntryResponse
}

// Choose returns the most preferred decoder for a MIME type.
func (h *DecoderHandler) Choose(ctx context.Context, input *ChooseDecoderInput) (*ChooseDecoderOutput, error) {
	entry, ok := h.svc.Choose(ctx, input.Mime)
	if !ok {
		return nil, huma.Error404NotFound(fmt.Sprintf("no decoder available for %s", input.Mime))
	}

	return &ChooseDecoderOutput{Body: entryResponse(input.Mime, entry)}, nil
}

// DecoderProfilesInput is the input for listing a decoder's profiles.
type DecoderProfilesInput struct {
	Name string `path:"name" doc:"Decoder component name"`
	Mime string `query:"mime" doc:"MIME type, e.g. video/avc" required:"true"`
}

// DecoderProfilesOutput is the output for listing a decoder's profiles.
type DecoderProfilesOutput struct {
	Body struct {
		Decoder  string         `json:"decoder"`
		MimeType string         `json:"mime_type"`
		Profiles []ProfileEntry `json:"profiles"`
	}
}

// ProfileEntry pairs a profile code with its name.
type ProfileEntry struct {
	Code int    `json:"code"`
	Name string `json:"name,omitempty"`
}

// Profiles returns the profile codes a decoder supports for a MIME type.
func (h *DecoderHandler) Profiles(ctx context.Context, input *DecoderProfilesInput) (*DecoderProfilesOutput, error) {
	profiles, ok := h.svc.ListSupportedProfiles(ctx, input.Name, input.Mime)
	if !ok {
		return nil, huma.Error404NotFound(fmt.Sprintf("no profiles for decoder %s and %s", input.Name, input.Mime))
	}

	family, _ := mediacodec.ParseFamily(input.Mime)

	resp := &DecoderProfilesOutput{}
	resp.Body.Decoder = input.Name
	resp.Body.MimeType = input.Mime
	resp.Body.Profiles = make([]ProfileEntry, 0, len(profiles))
	for _, p := range profiles {
		resp.Body.Profiles = append(resp.Body.Profiles, ProfileEntry{
			Code: p,
			Name: mediacodec.ProfileName(family, p),
		})
	}
	return resp, nil
}
