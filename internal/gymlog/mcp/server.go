package mcp

import (
	"net/http"

	"github.com/2beens/gymlog/internal/auth"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with read-only gymlog tools scoped to userID: schema,
// exercises, progress overview, exercise trend and plans.
func NewServer(service contextService, userID int) *mcp.Server {
	h := NewHandler(service, userID)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymlog-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_gymlog_schema",
		Description: "Returns the DB schema of the gymlog tables (exercise, workout_plan, planned_exercise, exercise_log): table names, columns, types, nullable, default.",
	}, h.GetGymlogSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_exercises",
		Description: "Returns the exercise catalog (id, name, muscle group, description) ordered by muscle group and name. Optional filter: muscle_group.",
	}, h.ListExercisesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progress_overview",
		Description: "Returns, for every exercise the user logged, the best estimated one-rep max (Epley) and the most recent log. Use for a quick strength summary.",
	}, h.GetProgressOverviewTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_trend",
		Description: "Returns the logs of one exercise within a period (3m, 6m, 1y, all; default 1y), newest first, plus a chart series (date, oneRm, weight, reps, sets) oldest first, with the all-time best estimated one-rep max and total log count. Args: exercise_id; optional: period.",
	}, h.GetExerciseTrendTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_plans",
		Description: "Returns the user's workout plans, newest first, with their active flag and exercise counts.",
	}, h.ListPlansTool())

	return s
}

// NewHTTPHandler serves the tools over streamable HTTP for the user authenticated on the
// request. It must be mounted behind the auth middleware.
func NewHTTPHandler(service contextService) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			return nil
		}
		return NewServer(service, userID)
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}
