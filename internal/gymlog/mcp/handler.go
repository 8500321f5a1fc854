package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests for one user: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
	userID  int
}

// NewHandler builds a handler answering on behalf of userID.
func NewHandler(service contextService, userID int) *Handler {
	return &Handler{
		service: service,
		userID:  userID,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// GetGymlogSchemaTool returns the MCP tool handler for get_gymlog_schema.
func (h *Handler) GetGymlogSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// ListExercisesInput is the input for list_exercises.
type ListExercisesInput struct {
	MuscleGroup string `json:"muscle_group,omitempty" jsonschema:"Filter by muscle group (e.g. chest, legs, full_body)"`
}

// ListExercisesTool returns the MCP tool handler for list_exercises.
func (h *Handler) ListExercisesTool() func(context.Context, *mcp.CallToolRequest, ListExercisesInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ListExercisesInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.ListExercises(ctx, in.MuscleGroup)
		if err != nil {
			if _, ok := gymlog.IsValidationError(err); ok {
				return errorResult("Invalid muscle_group: " + in.MuscleGroup), nil, nil
			}
			return errorResult("Error listing exercises: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// GetProgressOverviewTool returns the MCP tool handler for get_progress_overview.
func (h *Handler) GetProgressOverviewTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		overview, err := h.service.ProgressOverview(ctx, h.userID)
		if err != nil {
			return errorResult("Error fetching progress overview: " + err.Error()), nil, nil
		}
		return jsonResult(overview), nil, nil
	}
}

// ExerciseTrendInput is the input for get_exercise_trend.
type ExerciseTrendInput struct {
	ExerciseID int    `json:"exercise_id" jsonschema:"Catalog exercise id (see list_exercises)"`
	Period     string `json:"period,omitempty" jsonschema:"One of 3m, 6m, 1y, all. Defaults to 1y"`
}

// GetExerciseTrendTool returns the MCP tool handler for get_exercise_trend.
func (h *Handler) GetExerciseTrendTool() func(context.Context, *mcp.CallToolRequest, ExerciseTrendInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseTrendInput) (*mcp.CallToolResult, any, error) {
		if in.ExerciseID <= 0 {
			return errorResult("Invalid exercise_id: must be a positive number"), nil, nil
		}
		progress, err := h.service.ExerciseTrend(ctx, h.userID, in.ExerciseID, in.Period)
		if err != nil {
			if errors.Is(err, gymlog.ErrNotFound) {
				return errorResult(fmt.Sprintf("Exercise %d not found", in.ExerciseID)), nil, nil
			}
			return errorResult("Error fetching exercise trend: " + err.Error()), nil, nil
		}
		return jsonResult(progress), nil, nil
	}
}

// ListPlansTool returns the MCP tool handler for list_plans.
func (h *Handler) ListPlansTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		list, err := h.service.ListPlans(ctx, h.userID)
		if err != nil {
			return errorResult("Error listing plans: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}
