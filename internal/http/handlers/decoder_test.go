package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/decoderd/decoderd/internal/mediacodec"
	"github.com/decoderd/decoderd/internal/service"
)

// stubRegistry is a fixed-inventory registry for handler tests.
type stubRegistry struct {
	descriptors []mediacodec.Descriptor
}

func (s *stubRegistry) Decoders(_ context.Context) ([]mediacodec.Descriptor, error) {
	return s.descriptors, nil
}

func (s *stubRegistry) DecoderProfiles(_ context.Context, name, mimeType string) ([]int, error) {
	for _, d := range s.descriptors {
		if d.Name == name && !d.Encoder {
			return d.ProfilesFor(mimeType), nil
		}
	}
	return nil, errors.New("no such decoder: " + name)
}

func (s *stubRegistry) Features(_ context.Context) mediacodec.Features {
	return mediacodec.AllFeatures()
}

func boolPtr(b bool) *bool { return &b }

func newTestDecoderHandler() *DecoderHandler {
	reg := &stubRegistry{
		descriptors: []mediacodec.Descriptor{
			{
				Name:      "h264",
				MimeTypes: []string{"video/avc"},
				Hardware:  boolPtr(false),
				Profiles: map[string][]int{
					"video/avc": {mediacodec.AVCProfileBaseline, mediacodec.AVCProfileHigh},
				},
			},
			{
				Name:      "h264_cuvid",
				MimeTypes: []string{"video/avc"},
				Hardware:  boolPtr(true),
				Profiles: map[string][]int{
					"video/avc": {mediacodec.AVCProfileHigh},
				},
			},
		},
	}
	selector := mediacodec.NewSelector(reg, nil, nil)
	return NewDecoderHandler(service.NewSelectionService(selector, nil))
}

func TestDecoderHandler_List(t *testing.T) {
	handler := newTestDecoderHandler()

	output, err := handler.List(context.Background(), &ListDecodersInput{Mime: "video/avc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Body.Count != 3 {
		t.Fatalf("expected 3 entries, got %d", output.Body.Count)
	}
	if output.Body.Decoders[0].Name != "h264_cuvid" {
		t.Errorf("expected hardware decoder first, got %s", output.Body.Decoders[0].Name)
	}
	if output.Body.Decoders[0].ProfileName != "high" {
		t.Errorf("expected profile name high, got %q", output.Body.Decoders[0].ProfileName)
	}
}

func TestDecoderHandler_List_UnknownMime(t *testing.T) {
	handler := newTestDecoderHandler()

	output, err := handler.List(context.Background(), &ListDecodersInput{Mime: "video/unknown"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.Count != 0 {
		t.Errorf("expected empty list for unknown MIME type, got %d", output.Body.Count)
	}
}

func TestDecoderHandler_Choose(t *testing.T) {
	handler := newTestDecoderHandler()

	output, err := handler.Choose(context.Background(), &ChooseDecoderInput{Mime: "video/avc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Body.Name != "h264_cuvid" {
		t.Errorf("expected h264_cuvid, got %s", output.Body.Name)
	}
	if !output.Body.Hardware {
		t.Error("expected a hardware decoder")
	}
}

func TestDecoderHandler_Choose_NotFound(t *testing.T) {
	handler := newTestDecoderHandler()

	_, err := handler.Choose(context.Background(), &ChooseDecoderInput{Mime: "video/vp9"})
	if err == nil {
		t.Fatal("expected a 404 error for an unsupported MIME type")
	}
}

func TestDecoderHandler_Profiles(t *testing.T) {
	handler := newTestDecoderHandler()

	output, err := handler.Profiles(context.Background(), &DecoderProfilesInput{
		Name: "h264",
		Mime: "video/avc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(output.Body.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(output.Body.Profiles))
	}
	if output.Body.Decoder != "h264" {
		t.Errorf("expected decoder h264, got %s", output.Body.Decoder)
	}
}

func TestDecoderHandler_Profiles_NotFound(t *testing.T) {
	handler := newTestDecoderHandler()

	_, err := handler.Profiles(context.Background(), &DecoderProfilesInput{
		Name: "nonexistent",
		Mime: "video/avc",
	})
	if err == nil {
		t.Fatal("expected a 404 error for an unknown decoder")
	}
}
