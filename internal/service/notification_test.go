package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"karrah/internal/model"
)

type stubEmailSender struct {
	sent []string // recipient addresses
	err  error
}

func (s *stubEmailSender) Send(ctx context.Context, to, subject, body string) error {
	s.sent = append(s.sent, to)
	return s.err
}

type stubChatSender struct {
	texts []string
	err   error
}

func (s *stubChatSender) Send(ctx context.Context, chatID int64, text string) error {
	s.texts = append(s.texts, text)
	return s.err
}

func newStubNotifier(env *testEnv, email *stubEmailSender, chat *stubChatSender) *NotificationService {
	return NewNotificationService(env.notices, env.users, env.teams, email, chat, "https://karrah.example", zerolog.Nop())
}

func TestCreateDefaultsToInApp(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "reza@example.com")

	n, err := env.notifier.Create(ctx, CreateNotificationInput{
		UserID:  userID,
		Type:    model.NoticeAssignment,
		Title:   "کار جدید",
		Message: "یک کار به شما تخصیص یافت.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.ID == 0 {
		t.Fatal("notification was not persisted")
	}
	if n.Channel != model.ChannelInApp {
		t.Errorf("channel = %q, want %q", n.Channel, model.ChannelInApp)
	}
}

func TestCreateRecordSurvivesChannelFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "sara@example.com")

	email := &stubEmailSender{err: errors.New("smtp: connection refused")}
	notifier := newStubNotifier(env, email, nil)

	n, err := notifier.Create(ctx, CreateNotificationInput{
		UserID:   userID,
		Type:     model.NoticeTaskOverdue,
		Title:    "کار عقب افتاده",
		Message:  "موعد گذشت.",
		Channels: []string{model.ChannelInApp, model.ChannelEmail},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.ID == 0 {
		t.Fatal("in-app record missing after email failure")
	}
	if len(email.sent) != 1 {
		t.Errorf("email attempts = %d, want 1", len(email.sent))
	}
}

func TestEmailRespectsUserPreference(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	user := model.User{Email: "optout@example.com", FullName: "بدون ایمیل", EmailEnabled: false}
	if err := env.users.Create(ctx, &user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	email := &stubEmailSender{}
	notifier := newStubNotifier(env, email, nil)

	if _, err := notifier.Create(ctx, CreateNotificationInput{
		UserID:   user.ID,
		Type:     model.NoticeAssignment,
		Title:    "کار جدید",
		Message:  "پیام",
		Channels: []string{model.ChannelInApp, model.ChannelEmail},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(email.sent) != 0 {
		t.Errorf("email attempts = %d, want 0 for opted-out user", len(email.sent))
	}
	if n := env.countNotices(t, model.NoticeAssignment); n != 1 {
		t.Errorf("in-app records = %d, want 1", n)
	}
}

func TestTelegramEscapesAndSkipsUnlinkedUsers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	linked := model.User{Email: "linked@example.com", TelegramChatID: 4242}
	if err := env.users.Create(ctx, &linked); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	unlinked := env.seedUser(t, "unlinked@example.com")

	chat := &stubChatSender{}
	notifier := newStubNotifier(env, nil, chat)

	for _, userID := range []uint{linked.ID, unlinked} {
		if _, err := notifier.Create(ctx, CreateNotificationInput{
			UserID:   userID,
			Type:     model.NoticeAssignment,
			Title:    "کار <مهم>",
			Message:  "جزئیات",
			Channels: []string{model.ChannelInApp, model.ChannelTelegram},
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if len(chat.texts) != 1 {
		t.Fatalf("chat deliveries = %d, want 1", len(chat.texts))
	}
	if !strings.Contains(chat.texts[0], "<b>کار &lt;مهم&gt;</b>") {
		t.Errorf("chat text = %q, want escaped bold title", chat.texts[0])
	}
}

func TestNotifyTaskStatusChangeSkipsSelfChange(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "mina@example.com")

	task := &model.Task{ID: 7, Title: "کار", AssigneeID: &userID}
	if err := env.notifier.NotifyTaskStatusChange(ctx, task, model.StatusTodo, model.StatusDoing, userID); err != nil {
		t.Fatalf("NotifyTaskStatusChange: %v", err)
	}
	if n := env.countNotices(t, model.NoticeTaskStatusChanged); n != 0 {
		t.Errorf("status notifications = %d, want 0 when assignee moved their own task", n)
	}
}

func TestNotifyFormAssignedRendersJalaliDue(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "omid@example.com")

	teamID, _, _ := env.seedTeamWithBoard(t)
	due := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	assignment := seedFormAssignment(t, env, teamID, userID, model.FormStatusPending, due)
	form, err := env.forms.GetForm(ctx, assignment.FormID)
	if err != nil {
		t.Fatalf("GetForm: %v", err)
	}

	if err := env.notifier.NotifyFormAssigned(ctx, assignment, form); err != nil {
		t.Fatalf("NotifyFormAssigned: %v", err)
	}

	notices, err := env.notices.ListByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(notices) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notices))
	}
	msg := notices[0].Message
	if !strings.Contains(msg, "شهریور 1405") {
		t.Errorf("message %q does not carry the Jalali due date", msg)
	}
	if !strings.Contains(msg, "14:30") {
		t.Errorf("message %q does not carry the due time", msg)
	}
}

func TestReminderNoticeTypeLabels(t *testing.T) {
	t.Parallel()
	cases := []struct {
		lead time.Duration
		want string
	}{
		{24 * time.Hour, "task_reminder_24h"},
		{2 * time.Hour, "task_reminder_2h"},
		{30 * time.Minute, "task_reminder_30m"},
	}
	for _, tc := range cases {
		if got := ReminderNoticeType(model.NoticeTaskReminder, tc.lead); got != tc.want {
			t.Errorf("ReminderNoticeType(%v) = %q, want %q", tc.lead, got, tc.want)
		}
	}
}
