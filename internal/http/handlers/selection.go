package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/decoderd/decoderd/internal/models"
	"github.com/decoderd/decoderd/internal/service"
	"github.com/decoderd/decoderd/pkg/duration"
)

// SelectionHandler handles selection history API endpoints.
type SelectionHandler struct {
	svc *service.SelectionService
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(svc *service.SelectionService) *SelectionHandler {
	return &SelectionHandler{svc: svc}
}

// Register registers the selection routes with the API.
func (h *SelectionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listSelections",
		Method:      "GET",
		Path:        "/api/v1/selections",
		Summary:     "List selection history",
		Description: "Returns recent decoder selection records, newest first",
		Tags:        []string{"Selections"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "getSelection",
		Method:      "GET",
		Path:        "/api/v1/selections/{id}",
		Summary:     "Get selection record",
		Tags:        []string{"Selections"},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "pruneSelections",
		Method:      "DELETE",
		Path:        "/api/v1/selections",
		Summary:     "Prune selection history",
		Description: "Deletes selection records older than the given age, e.g. older_than=30d or a relative expression like '2 weeks ago'",
		Tags:        []string{"Selections"},
	}, h.Prune)
}

// SelectionResponse represents a selection record in API responses.
type SelectionResponse struct {
	ID         string `json:"id" doc:"Record ID (ULID)"`
	MimeType   string `json:"mime_type"`
	Decoder    string `json:"decoder"`
	Profile    int    `json:"profile"`
	Hardware   bool   `json:"hardware"`
	LowLatency bool   `json:"low_latency"`
	CreatedAt  string `json:"created_at"`
}

// SelectionFromModel converts a models.SelectionRecord to a response.
func SelectionFromModel(r *models.SelectionRecord) SelectionResponse {
	return SelectionResponse{
		ID:         r.ID.String(),
		MimeType:   r.MimeType,
		Decoder:    r.Decoder,
		Profile:    r.Profile,
		Hardware:   r.Hardware,
		LowLatency: r.LowLatency,
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ListSelectionsInput is the input for listing selection history.
type ListSelectionsInput struct {
	Mime  string `query:"mime" doc:"Filter by MIME type" required:"false"`
	Limit int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
}

// ListSelectionsOutput is the output for listing selection history.
type ListSelectionsOutput struct {
	Body struct {
		Selections []SelectionResponse `json:"selections"`
		Count      int                 `json:"count"`
		Total      int64               `json:"total" doc:"Total records stored, ignoring filters"`
	}
}

// List returns recent selection records.
func (h *SelectionHandler) List(ctx context.Context, input *ListSelectionsInput) (*ListSelectionsOutput, error) {
	var (
		records []*models.SelectionRecord
		err     error
	)
	if input.Mime != "" {
		records, err = h.svc.HistoryByMimeType(ctx, input.Mime, input.Limit)
	} else {
		records, err = h.svc.History(ctx, input.Limit)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list selections", err)
	}

	total, err := h.svc.CountHistory(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to count selections", err)
	}

	resp := &ListSelectionsOutput{}
	resp.Body.Selections = make([]SelectionResponse, 0, len(records))
	for _, r := range records {
		resp.Body.Selections = append(resp.Body.Selections, SelectionFromModel(r))
	}
	resp.Body.Count = len(records)
	resp.Body.Total = total
	return resp, nil
}

// GetSelectionInput is the input for fetching one selection record.
type GetSelectionInput struct {
	ID string `path:"id" doc:"Record ID (ULID)"`
}

// GetSelectionOutput is the output for fetching one selection record.
type GetSelectionOutput struct {
	Body SelectionResponse
}

// Get returns a single selection record by ID.
func (h *SelectionHandler) Get(ctx context.Context, input *GetSelectionInput) (*GetSelectionOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("selection %s not found", input.ID))
	}

	record, err := h.svc.HistoryRecord(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrSelectionNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("selection %s not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to get selection", err)
	}

	return &GetSelectionOutput{Body: SelectionFromModel(record)}, nil
}

// PruneSelectionsInput is the input for pruning selection history.
type PruneSelectionsInput struct {
	OlderThan string `query:"older_than" doc:"Age (30d) or relative time expression (2 weeks ago)" required:"true"`
}

// PruneSelectionsOutput is the output for pruning selection history.
type PruneSelectionsOutput struct {
	Body struct {
		Deleted int64 `json:"deleted"`
	}
}

// Prune deletes selection records older than the requested age.
func (h *SelectionHandler) Prune(ctx context.Context, input *PruneSelectionsInput) (*PruneSelectionsOutput, error) {
	cutoff, err := parseCutoff(input.OlderThan)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("invalid older_than value %q", input.OlderThan), err)
	}

	deleted, err := h.svc.PruneHistory(ctx, cutoff)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to prune selections", err)
	}

	resp := &PruneSelectionsOutput{}
	resp.Body.Deleted = deleted
	return resp, nil
}

// parseCutoff turns an age ("30d") or relative time expression
// ("2 weeks ago") into an absolute cutoff time.
func parseCutoff(s string) (time.Time, error) {
	if d, err := duration.Parse(s); err == nil {
		return time.Now().Add(-d), nil
	}
	return duration.ParseRelative(s)
}
