// Package dashboard assembles the landing view of a user: latest logs, active plan and
// the number of sessions logged today.
package dashboard

import (
	"context"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog/ledger"
	"github.com/2beens/gymlog/internal/gymlog/plans"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
)

const RecentLogsLimit = 10

//go:generate mockgen -source=$GOFILE -destination=dashboard_mocks_test.go -package=dashboard_test

type logsReader interface {
	Recent(ctx context.Context, userID, limit int) ([]ledger.LogEntry, error)
	CountToday(ctx context.Context, userID int) (int, error)
}

type activePlanGetter interface {
	Active(ctx context.Context, userID int) (*plans.Plan, error)
}

type Dashboard struct {
	RecentLogs []ledger.LogEntry `json:"recentLogs"`
	ActivePlan *plans.Plan       `json:"activePlan"`
	TodayCount int               `json:"todayCount"`
}

type Service struct {
	logs  logsReader
	plans activePlanGetter
}

func NewService(logs logsReader, plans activePlanGetter) *Service {
	return &Service{
		logs:  logs,
		plans: plans,
	}
}

func (s *Service) Get(ctx context.Context, userID int) (_ *Dashboard, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dashboard.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	recent, err := s.logs.Recent(ctx, userID, RecentLogsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent logs: %w", err)
	}
	if recent == nil {
		recent = []ledger.LogEntry{}
	}

	todayCount, err := s.logs.CountToday(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count today: %w", err)
	}

	activePlan, err := s.plans.Active(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("active plan: %w", err)
	}

	return &Dashboard{
		RecentLogs: recent,
		ActivePlan: activePlan,
		TodayCount: todayCount,
	}, nil
}
