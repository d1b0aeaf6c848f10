package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"karrah/internal/model"
	"karrah/internal/repository"
)

// Reminder lead times before a due date, longest first. Each lead is an
// independent notification: an item can legitimately collect all three
// over its lifetime.
var ReminderLeads = []time.Duration{24 * time.Hour, 2 * time.Hour, 30 * time.Minute}

// reminderSlack widens each lead window so items are not missed between
// sweep ticks.
const reminderSlack = 10 * time.Minute

// ReminderService runs the periodic overdue and upcoming sweeps. Dedup
// relies on the notification ledger: a pre-write existence check per
// (user, type, related) triple. Each sweep kind holds a mutex for its
// whole pass, so an overlapping timer tick is skipped rather than
// racing the check-then-create sequence.
type ReminderService struct {
	taskRepo   *repository.TaskRepository
	formRepo   *repository.FormRepository
	noticeRepo *repository.NotificationRepository
	notifier   *NotificationService
	log        zerolog.Logger
	clock      func() time.Time

	overdueMu  sync.Mutex
	upcomingMu sync.Mutex
}

func NewReminderService(
	taskRepo *repository.TaskRepository,
	formRepo *repository.FormRepository,
	noticeRepo *repository.NotificationRepository,
	notifier *NotificationService,
	log zerolog.Logger,
) *ReminderService {
	return &ReminderService{
		taskRepo:   taskRepo,
		formRepo:   formRepo,
		noticeRepo: noticeRepo,
		notifier:   notifier,
		log:        log,
		clock:      time.Now,
	}
}

// CheckAndNotifyOverdueItems scans open tasks and pending form
// assignments whose due time has passed and creates at most one overdue
// notification per item. Per-item failures are logged and skipped; the
// next tick re-evaluates them.
func (s *ReminderService) CheckAndNotifyOverdueItems(ctx context.Context) error {
	if !s.overdueMu.TryLock() {
		s.log.Debug().Msg("overdue sweep still running, skipping tick")
		return nil
	}
	defer s.overdueMu.Unlock()

	now := s.clock()
	var errs []error

	tasks, err := s.taskRepo.ListOpenDueBefore(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}
	for i := range tasks {
		task := &tasks[i]
		if task.AssigneeID == nil {
			continue
		}
		exists, err := s.noticeRepo.ExistsFor(ctx, *task.AssigneeID, model.NoticeTaskOverdue, task.ID)
		if err != nil {
			s.log.Warn().Err(err).Uint("task_id", task.ID).Msg("ledger check failed, skipping item")
			continue
		}
		if exists {
			continue
		}
		if err := s.notifier.NotifyTaskOverdue(ctx, task); err != nil {
			s.log.Warn().Err(err).Uint("task_id", task.ID).Msg("overdue notification failed, skipping item")
		}
	}

	assignments, err := s.formRepo.ListPendingDueBefore(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}
	for i := range assignments {
		a := &assignments[i]
		exists, err := s.noticeRepo.ExistsFor(ctx, a.AssigneeID, model.NoticeFormOverdue, a.ID)
		if err != nil {
			s.log.Warn().Err(err).Uint("assignment_id", a.ID).Msg("ledger check failed, skipping item")
			continue
		}
		if exists {
			continue
		}
		form, err := s.formRepo.GetForm(ctx, a.FormID)
		if err != nil {
			s.log.Warn().Err(err).Uint("assignment_id", a.ID).Msg("form fetch failed, skipping item")
			continue
		}
		if err := s.notifier.NotifyFormOverdue(ctx, a, form); err != nil {
			s.log.Warn().Err(err).Uint("assignment_id", a.ID).Msg("overdue notification failed, skipping item")
		}
	}

	return errors.Join(errs...)
}

// CheckAndSendReminders scans, for every lead time, the items due
// inside [now+lead-10m, now+lead+10m] and creates at most one reminder
// per item and lead.
func (s *ReminderService) CheckAndSendReminders(ctx context.Context) error {
	if !s.upcomingMu.TryLock() {
		s.log.Debug().Msg("reminder sweep still running, skipping tick")
		return nil
	}
	defer s.upcomingMu.Unlock()

	now := s.clock()
	var errs []error

	for _, lead := range ReminderLeads {
		target := now.Add(lead)
		start := target.Add(-reminderSlack)
		end := target.Add(reminderSlack)

		tasks, err := s.taskRepo.ListOpenDueBetween(ctx, start, end)
		if err != nil {
			errs = append(errs, err)
		}
		for i := range tasks {
			task := &tasks[i]
			if task.AssigneeID == nil {
				continue
			}
			noticeType := ReminderNoticeType(model.NoticeTaskReminder, lead)
			exists, err := s.noticeRepo.ExistsFor(ctx, *task.AssigneeID, noticeType, task.ID)
			if err != nil {
				s.log.Warn().Err(err).Uint("task_id", task.ID).Msg("ledger check failed, skipping item")
				continue
			}
			if exists {
				continue
			}
			if err := s.notifier.NotifyTaskReminder(ctx, task, lead); err != nil {
				s.log.Warn().Err(err).Uint("task_id", task.ID).Msg("reminder failed, skipping item")
			}
		}

		assignments, err := s.formRepo.ListPendingDueBetween(ctx, start, end)
		if err != nil {
			errs = append(errs, err)
		}
		for i := range assignments {
			a := &assignments[i]
			noticeType := ReminderNoticeType(model.NoticeFormReminder, lead)
			exists, err := s.noticeRepo.ExistsFor(ctx, a.AssigneeID, noticeType, a.ID)
			if err != nil {
				s.log.Warn().Err(err).Uint("assignment_id", a.ID).Msg("ledger check failed, skipping item")
				continue
			}
			if exists {
				continue
			}
			form, err := s.formRepo.GetForm(ctx, a.FormID)
			if err != nil {
				s.log.Warn().Err(err).Uint("assignment_id", a.ID).Msg("form fetch failed, skipping item")
				continue
			}
			if err := s.notifier.NotifyFormReminder(ctx, a, form, lead); err != nil {
				s.log.Warn().Err(err).Uint("assignment_id", a.ID).Msg("reminder failed, skipping item")
			}
		}
	}

	return errors.Join(errs...)
}
