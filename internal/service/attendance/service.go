package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
	"github.com/zenith-erp/erp-backend-go/internal/domain/employee"
	"github.com/zenith-erp/erp-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type AttendanceServiceImpl struct {
	attendance.EventRepository
	employee.EmployeeRepository
	now func() time.Time
}

func NewAttendanceService(
	eventRepo attendance.EventRepository,
	employeeRepo employee.EmployeeRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		EventRepository:    eventRepo,
		EmployeeRepository: employeeRepo,
		now:                time.Now,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func hoursFromSeconds(seconds int64) decimal.Decimal {
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)).Round(2)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// logicalDay resolves which work day a clock event belongs to. The client
// date, when given, wins over the server's calendar day so a request sent
// just before midnight lands on the day the user sees.
func logicalDay(clientDate *string, now time.Time) time.Time {
	if clientDate != nil && *clientDate != "" {
		if d, ok := validator.IsValidDate(*clientDate); ok {
			return d
		}
	}
	return dayOf(now)
}

// Clock implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Clock(ctx context.Context, req attendance.ClockRequest) (attendance.ClockResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.ClockResponse{}, err
	}

	now := s.now()
	day := logicalDay(req.ClientDate, now)

	var resp attendance.ClockResponse
	err := s.EventRepository.WithinDay(ctx, req.EmployeeID, day, func(ctx context.Context) error {
		latest, err := s.EventRepository.LatestEventForDay(ctx, req.EmployeeID, day)
		if err != nil {
			return fmt.Errorf("failed to get latest event: %w", err)
		}

		switch attendance.Action(req.Action) {
		case attendance.ActionIn:
			if latest != nil && latest.Action == attendance.ActionIn {
				// Redundant clock-in, e.g. a double submit. Report the
				// current state without writing anything.
				resp = attendance.ClockResponse{
					Status:      attendance.StatusWorking,
					Timestamp:   latest.Timestamp.Format("2006-01-02 15:04:05"),
					Action:      attendance.ActionIn,
					IsClockedIn: true,
				}
				return nil
			}
			return s.appendAndProject(ctx, req.EmployeeID, day, now, attendance.ActionIn, nil, &resp)

		case attendance.ActionOut:
			if latest == nil {
				return attendance.ErrInvalidTransition
			}
			if latest.Action == attendance.ActionOut {
				events, err := s.EventRepository.EventsForDay(ctx, req.EmployeeID, day)
				if err != nil {
					return fmt.Errorf("failed to get events for day: %w", err)
				}
				agg := AggregateDay(day, events, now)
				resp = attendance.ClockResponse{
					Status:          Classify(agg.TotalSeconds, false),
					Timestamp:       latest.Timestamp.Format("2006-01-02 15:04:05"),
					Action:          attendance.ActionOut,
					DurationSeconds: latest.SessionSeconds,
					IsClockedIn:     false,
				}
				return nil
			}
			duration := SessionSeconds(latest.Timestamp, now)
			return s.appendAndProject(ctx, req.EmployeeID, day, now, attendance.ActionOut, &duration, &resp)

		default:
			return attendance.ErrUnknownAction
		}
	})
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	return resp, nil
}

// appendAndProject performs the write half of a validated transition: one
// new ledger event plus the recomputed day summary, inside the caller's
// transaction.
func (s *AttendanceServiceImpl) appendAndProject(
	ctx context.Context,
	employeeID string,
	day time.Time,
	now time.Time,
	action attendance.Action,
	sessionSeconds *int64,
	resp *attendance.ClockResponse,
) error {
	event := attendance.ClockEvent{
		ID:             uuid.NewString(),
		EmployeeID:     employeeID,
		Date:           day,
		Timestamp:      now,
		Action:         action,
		SessionSeconds: sessionSeconds,
		RecordedAt:     now,
	}
	if _, err := s.EventRepository.AppendEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to append clock event: %w", err)
	}

	events, err := s.EventRepository.EventsForDay(ctx, employeeID, day)
	if err != nil {
		return fmt.Errorf("failed to get events for day: %w", err)
	}
	agg := AggregateDay(day, events, now)
	if err := s.EventRepository.SaveDaySummary(ctx, agg.Summary(employeeID, day)); err != nil {
		return fmt.Errorf("failed to save day summary: %w", err)
	}

	status := attendance.StatusWorking
	if action == attendance.ActionOut {
		status = Classify(agg.TotalSeconds, false)
	}
	*resp = attendance.ClockResponse{
		Status:          status,
		Timestamp:       now.Format("2006-01-02 15:04:05"),
		Action:          action,
		DurationSeconds: sessionSeconds,
		IsClockedIn:     action == attendance.ActionIn,
	}
	return nil
}

// DashboardSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DashboardSummary(ctx context.Context, req attendance.SummaryRequest) (attendance.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	now := s.now()
	day := dayOf(now)
	if req.Date != "" {
		day, _ = validator.IsValidDate(req.Date)
	}

	var events []attendance.ClockEvent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.EmployeeRepository.GetByID(gctx, req.EmployeeID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.EventRepository.EventsForDay(gctx, req.EmployeeID, day)
		if err != nil {
			return fmt.Errorf("failed to get events for day: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	agg := AggregateDay(day, events, now)
	// A dangling clock-in on a past day is stale, not live. The card
	// reports it as not clocked in so the status and the flag agree.
	isLive := agg.Open && sameDate(day, now)

	return attendance.SummaryResponse{
		Date:        day.Format("2006-01-02"),
		ClockIn:     timePtrToString(agg.FirstIn),
		ClockOut:    timePtrToString(agg.LastOut),
		HoursWorked: hoursFromSeconds(agg.TotalSeconds),
		Status:      Classify(agg.TotalSeconds, isLive),
		IsClockedIn: isLive,
	}, nil
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	now := s.now()
	from, to := filter.Range(now)

	var events []attendance.ClockEvent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.EmployeeRepository.GetByID(gctx, filter.EmployeeID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.EventRepository.EventsForRange(gctx, filter.EmployeeID, from, to)
		if err != nil {
			return fmt.Errorf("failed to get events for range: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	byDay := make(map[string][]attendance.ClockEvent)
	for _, ev := range events {
		key := ev.Date.Format("2006-01-02")
		byDay[key] = append(byDay[key], ev)
	}

	var resp attendance.HistoryResponse
	var totalSeconds int64
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		dayEvents := byDay[key]

		agg := AggregateDay(day, dayEvents, now)
		isLive := agg.Open && sameDate(day, now)

		sessions := make([]attendance.SessionItem, 0, agg.SessionCount+1)
		for _, sess := range PairSessions(dayEvents) {
			sessions = append(sessions, attendance.SessionItem{
				ClockIn:         sess.In.Format("2006-01-02 15:04:05"),
				ClockOut:        timePtrToString(sess.Out),
				DurationSeconds: sess.Seconds,
			})
		}

		resp.Days = append(resp.Days, attendance.HistoryDay{
			Date:         key,
			ClockIn:      timePtrToString(agg.FirstIn),
			ClockOut:     timePtrToString(agg.LastOut),
			TotalSeconds: agg.TotalSeconds,
			Status:       Classify(agg.TotalSeconds, isLive),
			Sessions:     sessions,
			Blocks:       BuildBlocks(day, dayEvents, now),
		})

		// The range summary, hours and counters alike, is computed from
		// closed sessions only, so the same query gives the same answer
		// once today's open session ends. Only the per-day rows carry
		// the live projection.
		totalSeconds += agg.ClosedSeconds

		switch Classify(agg.ClosedSeconds, false) {
		case attendance.StatusPresent:
			resp.Summary.PresentDays++
		case attendance.StatusLate:
			resp.Summary.LateDays++
		case attendance.StatusPartial:
			resp.Summary.PartialDays++
		case attendance.StatusAbsent:
			resp.Summary.AbsentDays++
		}
	}
	resp.Summary.TotalHours = hoursFromSeconds(totalSeconds)

	return resp, nil
}
