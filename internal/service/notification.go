package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"karrah/internal/calendar"
	"karrah/internal/model"
	"karrah/internal/repository"
)

// EmailSender delivers a message over a secondary email channel.
// Delivery is best-effort; errors are logged and swallowed.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ChatSender delivers a message to a chat channel (e.g. Telegram).
type ChatSender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// CreateNotificationInput carries everything needed to create one
// notification record and fan it out to the requested channels.
type CreateNotificationInput struct {
	UserID      uint
	Type        string
	Title       string
	Message     string
	RelatedID   uint
	RelatedType string
	Metadata    map[string]any
	Channels    []string
}

// NotificationService creates in-app notification records and forwards
// them, best-effort, to secondary channels. The in-app record is always
// written first: it is the authoritative dedup signal for the sweeps.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	teamRepo *repository.TeamRepository
	email    EmailSender
	chat     ChatSender
	baseURL  string
	log      zerolog.Logger
	clock    func() time.Time
}

func NewNotificationService(
	repo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	teamRepo *repository.TeamRepository,
	email EmailSender,
	chat ChatSender,
	baseURL string,
	log zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
		teamRepo: teamRepo,
		email:    email,
		chat:     chat,
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      log,
		clock:    time.Now,
	}
}

// Create writes the in-app record and then attempts the secondary
// channels. A secondary delivery failure never invalidates the record
// and is not retried.
func (s *NotificationService) Create(ctx context.Context, in CreateNotificationInput) (*model.Notification, error) {
	channels := in.Channels
	if len(channels) == 0 {
		channels = []string{model.ChannelInApp}
	}

	meta := make(map[string]any, len(in.Metadata)+1)
	for k, v := range in.Metadata {
		meta[k] = v
	}
	meta["all_channels"] = channels

	n := &model.Notification{
		UserID:      in.UserID,
		Type:        in.Type,
		Title:       in.Title,
		Message:     in.Message,
		Channel:     channels[0],
		RelatedID:   in.RelatedID,
		RelatedType: in.RelatedType,
		Metadata:    meta,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	for _, ch := range channels {
		switch ch {
		case model.ChannelEmail:
			s.sendEmail(ctx, in)
		case model.ChannelTelegram:
			s.sendTelegram(ctx, in)
		}
	}

	return n, nil
}

func (s *NotificationService) sendEmail(ctx context.Context, in CreateNotificationInput) {
	if s.email == nil {
		return
	}
	user, err := s.userRepo.FindByID(ctx, in.UserID)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", in.UserID).Msg("skipping email notification, user fetch failed")
		return
	}
	if user.Email == "" || !user.EmailEnabled {
		return
	}

	name := user.FullName
	if name == "" {
		name = user.Email
	}

	var b strings.Builder
	fmt.Fprintf(&b, "سلام %s،\n\n%s\n", name, in.Message)
	if url, ok := in.Metadata["actionUrl"].(string); ok && url != "" {
		fmt.Fprintf(&b, "\nبرای مشاهده جزئیات روی لینک زیر کلیک کنید:\n%s\n", url)
	}
	b.WriteString("\nبا تشکر،\nتیم سیستم مدیریت کار کارراه")

	if err := s.email.Send(ctx, user.Email, "کارراه - "+in.Title, b.String()); err != nil {
		s.log.Warn().Err(err).Str("to", user.Email).Msg("email delivery failed, in-app notification stands")
	}
}

func (s *NotificationService) sendTelegram(ctx context.Context, in CreateNotificationInput) {
	if s.chat == nil {
		return
	}
	user, err := s.userRepo.FindByID(ctx, in.UserID)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", in.UserID).Msg("skipping telegram notification, user fetch failed")
		return
	}
	if user.TelegramChatID == 0 {
		return
	}

	text := fmt.Sprintf("<b>%s</b>\n%s", htmlEscape(in.Title), htmlEscape(in.Message))
	if err := s.chat.Send(ctx, user.TelegramChatID, text); err != nil {
		s.log.Warn().Err(err).Int64("chat_id", user.TelegramChatID).Msg("telegram delivery failed, in-app notification stands")
	}
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// safeUserName resolves a display name, falling back to "مدیر" when the
// actor is unknown or cannot be fetched.
func (s *NotificationService) safeUserName(ctx context.Context, userID uint) string {
	if userID == 0 {
		return "مدیر"
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user.FullName == "" {
		return "مدیر"
	}
	return user.FullName
}

// ReminderNoticeType builds the ledger type for one reminder lead, e.g.
// "task_reminder_24h". Keeping the lead in the type makes the three
// reminder windows independent of each other in the dedup check.
func ReminderNoticeType(base string, lead time.Duration) string {
	return base + "_" + leadLabel(lead)
}

func leadLabel(lead time.Duration) string {
	if lead < time.Hour {
		return fmt.Sprintf("%dm", int(lead.Minutes()))
	}
	return fmt.Sprintf("%dh", int(lead.Hours()))
}

// leadText renders a lead time for Persian message bodies.
func leadText(lead time.Duration) string {
	if lead < time.Hour {
		return fmt.Sprintf("%d دقیقه", int(lead.Minutes()))
	}
	return fmt.Sprintf("%d ساعت", int(lead.Hours()))
}

var statusLabels = map[string]string{
	model.StatusTodo:  "انجام شود",
	model.StatusDoing: "در حال انجام",
	model.StatusDone:  "انجام شده",
	model.StatusStuck: "مسدود",
}

// NotifyTaskAssigned notifies the assignee of a newly assigned task.
// assignedBy may be zero when the task was spawned by the system.
func (s *NotificationService) NotifyTaskAssigned(ctx context.Context, task *model.Task, assigneeID, assignedBy uint) error {
	if assigneeID == 0 {
		return nil
	}
	actor := s.safeUserName(ctx, assignedBy)
	_, err := s.Create(ctx, CreateNotificationInput{
		UserID:      assigneeID,
		Type:        model.NoticeAssignment,
		Title:       "کار جدید به شما تخصیص یافت",
		Message:     fmt.Sprintf("کار \"%s\" توسط %s به شما تخصیص داده شد.", task.Title, actor),
		RelatedID:   task.ID,
		RelatedType: model.RelatedTask,
		Metadata: map[string]any{
			"task_title":  task.Title,
			"assigned_by": actor,
			"due_date":    task.DueAt,
			"priority":    task.Priority,
			"actionUrl":   s.baseURL + "/boards",
		},
	})
	return err
}

// NotifyTaskOverdue records the single overdue notification for a task.
func (s *NotificationService) NotifyTaskOverdue(ctx context.Context, task *model.Task) error {
	if task.AssigneeID == nil {
		return nil
	}
	meta := map[string]any{
		"task_title": task.Title,
		"due_date":   task.DueAt,
		"priority":   task.Priority,
		"actionUrl":  s.baseURL + "/boards",
	}
	if task.DueAt != nil {
		meta["overdue_hours"] = int(s.clock().Sub(*task.DueAt).Hours())
	}
	_, err := s.Create(ctx, CreateNotificationInput{
		UserID:      *task.AssigneeID,
		Type:        model.NoticeTaskOverdue,
		Title:       "کار عقب افتاده",
		Message:     fmt.Sprintf("کار \"%s\" از موعد مقرر عبور کرده است. لطفاً هرچه سریع‌تر آن را تکمیل کنید.", task.Title),
		RelatedID:   task.ID,
		RelatedType: model.RelatedTask,
		Metadata:    meta,
	})
	return err
}

// NotifyTaskReminder records the reminder for one lead time.
func (s *NotificationService) NotifyTaskReminder(ctx context.Context, task *model.Task, lead time.Duration) error {
	if task.AssigneeID == nil {
		return nil
	}
	_, err := s.Create(ctx, CreateNotificationInput{
		UserID:      *task.AssigneeID,
		Type:        ReminderNoticeType(model.NoticeTaskReminder, lead),
		Title:       "یادآوری موعد کار",
		Message:     fmt.Sprintf("کار \"%s\" تا %s دیگر موعد انجامش می‌رسد.", task.Title, leadText(lead)),
		RelatedID:   task.ID,
		RelatedType: model.RelatedTask,
		Metadata: map[string]any{
			"task_title":      task.Title,
			"due_date":        task.DueAt,
			"priority":        task.Priority,
			"hours_remaining": lead.Hours(),
			"actionUrl":       s.baseURL + "/boards",
		},
	})
	return err
}

// NotifyTaskStatusChange notifies the assignee when someone else moves
// their task to a different status.
func (s *NotificationService) NotifyTaskStatusChange(ctx context.Context, task *model.Task, oldStatus, newStatus string, changedBy uint) error {
	if task.AssigneeID == nil || *task.AssigneeID == changedBy {
		return nil
	}
	actor := s.safeUserName(ctx, changedBy)
	if actor == "مدیر" && changedBy != 0 {
		actor = "کاربر"
	}
	_, err := s.Create(ctx, CreateNotificationInput{
		UserID: *task.AssigneeID,
		Type:   model.NoticeTaskStatusChanged,
		Title:  "وضعیت کار تغییر کرد",
		Message: fmt.Sprintf("وضعیت کار \"%s\" از \"%s\" به \"%s\" توسط %s تغییر یافت.",
			task.Title, statusLabels[oldStatus], statusLabels[newStatus], actor),
		RelatedID:   task.ID,
		RelatedType: model.RelatedTask,
		Metadata: map[string]any{
			"task_title": task.Title,
			"old_status": oldStatus,
			"new_status": newStatus,
			"changed_by": actor,
			"actionUrl":  s.baseURL + "/boards",
		},
	})
	return err
}

// NotifyFormAssigned notifies a user that a form awaits completion. The
// due date is rendered in the Jalali calendar for display only.
func (s *NotificationService) NotifyFormAssigned(ctx context.Context, assignment *model.FormAssignment, form *model.Form) error {
	msg := fmt.Sprintf("فرم \"%s\" برای تکمیل به شما تخصیص یافت.", form.Title)
	if assignment.DueAt != nil {
		msg = fmt.Sprintf("%s موعد تکمیل: %s ساعت %s",
			msg, calendar.Format(*assignment.DueAt), calendar.FormatTime(*assignment.DueAt))
	}
	_, err := s.Create(ctx, CreateNotificationInput{
		UserID:      assignment.AssigneeID,
		Type:        model.NoticeFormAssignment,
		Title:       "فرم جدید برای تکمیل",
		Message:     msg,
		RelatedID:   assignment.ID,
		RelatedType: model.RelatedFormAssignment,
		Metadata: map[string]any{
			"form_title":       form.Title,
			"assignment_title": assignment.Title,
			"due_date":         assignment.DueAt,
			"actionUrl":        fmt.Sprintf("%s/form-submission?assignment=%d", s.baseURL, assignment.ID),
		},
	})
	return err
}

// NotifyFormOverdue records the single overdue notification for a form
// assignment.
func (s *NotificationService) NotifyFormOverdue(ctx context.Context, assignment *model.FormAssignment, form *model.Form) error {
	meta := map[string]any{
		"form_title":       form.Title,
		"assignment_title": assignment.Title,
		"due_date":         assignment.DueAt,
		"actionUrl":        fmt.Sprintf("%s/form-submission?assignment=%d", s.baseURL, assignment.ID),
	}
	if assignment.DueAt != nil {
		meta["overdue_hours"] = int(s.clock().Sub(*assignment.DueAt).Hours())
	}
	_, err := s.Create(ctx, CreateNotificationInput{
		UserID:      assignment.AssigneeID,
		Type:        model.NoticeFormOverdue,
		Title:       "فرم عقب افتاده",
		Message:     fmt.Sprintf("فرم \"%s\" از موعد مقرر عبور کرده است. لطفاً هرچه سریع‌تر آن را تکمیل کنید.", form.Title),
		RelatedID:   assignment.ID,
		RelatedType: model.RelatedFormAssignment,
		Metadata:    meta,
	})
	return err
}

// NotifyFormReminder records the reminder for one lead time.
func (s *NotificationService) NotifyFormReminder(ctx context.Context, assignment *model.FormAssignment, form *model.Form, lead time.Duration) error {
	_, err := s.Create(ctx, CreateNotificationInput{
		UserID:      assignment.AssigneeID,
		Type:        ReminderNoticeType(model.NoticeFormReminder, lead),
		Title:       "یادآوری تکمیل فرم",
		Message:     fmt.Sprintf("فرم \"%s\" تا %s دیگر موعد تکمیلش می‌رسد.", form.Title, leadText(lead)),
		RelatedID:   assignment.ID,
		RelatedType: model.RelatedFormAssignment,
		Metadata: map[string]any{
			"form_title":       form.Title,
			"assignment_title": assignment.Title,
			"due_date":         assignment.DueAt,
			"hours_remaining":  lead.Hours(),
			"actionUrl":        fmt.Sprintf("%s/form-submission?assignment=%d", s.baseURL, assignment.ID),
		},
	})
	return err
}

// NotifyTeamMemberAdded welcomes a user to a team.
func (s *NotificationService) NotifyTeamMemberAdded(ctx context.Context, teamID, newMemberID, addedBy uint) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return err
	}
	actor := s.safeUserName(ctx, addedBy)
	_, err = s.Create(ctx, CreateNotificationInput{
		UserID:      newMemberID,
		Type:        model.NoticeTeamAssignment,
		Title:       "به تیم جدید اضافه شدید",
		Message:     fmt.Sprintf("شما توسط %s به تیم \"%s\" اضافه شدید.", actor, team.Name),
		RelatedID:   teamID,
		RelatedType: model.RelatedTeam,
		Metadata: map[string]any{
			"team_name": team.Name,
			"added_by":  actor,
			"actionUrl": s.baseURL + "/teams",
		},
	})
	return err
}

// NotifyRecurringTasksGenerated tells every member of a team that the
// spawner created new tasks from its templates.
func (s *NotificationService) NotifyRecurringTasksGenerated(ctx context.Context, teamID uint, tasksCount, templatesUsed int) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return err
	}
	memberIDs, err := s.teamRepo.ListMemberIDs(ctx, teamID)
	if err != nil {
		return err
	}
	for _, userID := range memberIDs {
		_, err := s.Create(ctx, CreateNotificationInput{
			UserID:      userID,
			Type:        model.NoticeRecurringGenerated,
			Title:       "کارهای تکراری جدید ایجاد شد",
			Message:     fmt.Sprintf("%d کار تکراری جدید برای تیم \"%s\" ایجاد شد.", tasksCount, team.Name),
			RelatedID:   teamID,
			RelatedType: model.RelatedTeam,
			Metadata: map[string]any{
				"team_name":      team.Name,
				"tasks_count":    tasksCount,
				"templates_used": templatesUsed,
				"actionUrl":      s.baseURL + "/boards",
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
