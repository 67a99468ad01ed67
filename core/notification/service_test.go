package notification_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/notification"
	dummydb "github.com/campushq/campus/storage/database/dummy"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []core.EmailMessage
	failTo map[string]error // address -> error
}

func (f *fakeMailer) Send(ctx context.Context, msg *core.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(msg.To) > 0 {
		if err, ok := f.failTo[msg.To[0].Address]; ok {
			return err
		}
	}
	f.sent = append(f.sent, *msg)
	return nil
}

// fakeDirectory resolves recipients from a fixed table; an empty address
// means "no email on record".
type fakeDirectory struct {
	kind   notification.Kind
	emails map[string]string
	err    error
}

func (d *fakeDirectory) Email(ctx context.Context, id string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	return d.emails[id], nil
}

func (d *fakeDirectory) List(ctx context.Context) ([]notification.Recipient, error) {
	if d.err != nil {
		return nil, d.err
	}
	recipients := make([]notification.Recipient, 0, len(d.emails))
	for id := range d.emails {
		recipients = append(recipients, notification.Recipient{ID: id, Kind: d.kind})
	}
	return recipients, nil
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T, students *fakeDirectory) (*notification.Service, *fakeMailer, notification.Repository) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := dummydb.NewNotificationRepository(db)
	mailer := &fakeMailer{failTo: make(map[string]error)}
	if students == nil {
		students = &fakeDirectory{kind: notification.KindStudent, emails: make(map[string]string)}
	}
	svc, err := notification.NewService(repo, mailer, nopLogger{}, map[notification.Kind]notification.Directory{
		notification.KindStudent: students,
		notification.KindFaculty: &fakeDirectory{kind: notification.KindFaculty, emails: make(map[string]string)},
		notification.KindAdmin:   &fakeDirectory{kind: notification.KindAdmin, emails: make(map[string]string)},
	})
	if err != nil {
		t.Fatalf("NewService() failed: %v", err)
	}
	return svc, mailer, repo
}

func TestNewService_requiresEveryDirectory(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewNotificationRepository(db)

	_, err = notification.NewService(repo, &fakeMailer{}, nopLogger{}, map[notification.Kind]notification.Directory{
		notification.KindStudent: &fakeDirectory{kind: notification.KindStudent},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "faculty")
}

// one failing mailbox must not stop the fan-out: every recipient still gets
// an in-app record and the rest still get their emails.
func TestService_Dispatch_partialFailure(t *testing.T) {
	ctx := context.Background()
	students := &fakeDirectory{kind: notification.KindStudent, emails: map[string]string{
		"s1": "s1@test.test",
		"s2": "s2@test.test",
		"s3": "s3@test.test",
	}}
	svc, mailer, _ := setup(t, students)
	mailer.failTo["s2@test.test"] = errors.New("mailbox unavailable")

	report, err := svc.Dispatch(ctx, notification.DispatchRequest{
		Recipients: []notification.Recipient{
			{ID: "s1", Kind: notification.KindStudent},
			{ID: "s2", Kind: notification.KindStudent},
			{ID: "s3", Kind: notification.KindStudent},
		},
		Message: "Results are out.",
		Channel: notification.ChannelBoth,
	})
	if err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	assert.Len(t, report.Notifications, 3)
	assert.Equal(t, 2, report.Delivered())
	assert.Equal(t, 1, report.Failed())
	assert.Len(t, mailer.sent, 2)

	// the failed recipient keeps its in-app record
	notices, err := svc.QueryForRecipient(ctx, "s2", notification.KindStudent)
	if err != nil {
		t.Fatalf("QueryForRecipient() failed: %v", err)
	}
	if assert.Len(t, notices, 1) {
		assert.Equal(t, "Results are out.", notices[0].Message)
		assert.Equal(t, notification.ChannelInApp, notices[0].Channel)
	}
}

func TestService_Dispatch_inAppOnly(t *testing.T) {
	ctx := context.Background()
	students := &fakeDirectory{kind: notification.KindStudent, emails: map[string]string{"s1": "s1@test.test"}}
	svc, mailer, _ := setup(t, students)

	report, err := svc.Dispatch(ctx, notification.DispatchRequest{
		Recipients: []notification.Recipient{{ID: "s1", Kind: notification.KindStudent}},
		Message:    "Fee reminder",
		Channel:    notification.ChannelInApp,
	})
	if err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	assert.Empty(t, mailer.sent)
	// no email was wanted, so none counts as delivered
	assert.Equal(t, 0, report.Delivered())
	assert.Equal(t, 1, report.Skipped())
	if assert.Len(t, report.Deliveries, 1) {
		assert.Equal(t, "email not requested", report.Deliveries[0].Reason)
	}
	assert.Len(t, report.Notifications, 1)
}

func TestService_Dispatch_missingAddressIsSkipped(t *testing.T) {
	ctx := context.Background()
	students := &fakeDirectory{kind: notification.KindStudent, emails: map[string]string{"s1": ""}}
	svc, mailer, _ := setup(t, students)

	report, err := svc.Dispatch(ctx, notification.DispatchRequest{
		Recipients: []notification.Recipient{{ID: "s1", Kind: notification.KindStudent}},
		Message:    "Hello",
		Channel:    notification.ChannelEmail,
	})
	if err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	assert.Empty(t, mailer.sent)
	assert.Equal(t, 1, report.Skipped())
	// the in-app record is still written
	assert.Len(t, report.Notifications, 1)
}

func TestService_Dispatch_unknownKindRejectedUpfront(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := setup(t, nil)

	_, err := svc.Dispatch(ctx, notification.DispatchRequest{
		Recipients: []notification.Recipient{
			{ID: "s1", Kind: notification.KindStudent},
			{ID: "x1", Kind: notification.Kind("alien")},
		},
		Message: "Hello",
		Channel: notification.ChannelInApp,
	})
	assert.Equal(t, notification.ErrUnknownKind, err)

	// rejected before any record was written
	notices, err := repo.QueryNotificationsForRecipient(ctx, "s1", notification.KindStudent)
	if err != nil {
		t.Fatalf("QueryNotificationsForRecipient() failed: %v", err)
	}
	assert.Empty(t, notices)
}

// duplicates are delivered twice; the dispatcher does not de-duplicate.
func TestService_Dispatch_duplicateRecipients(t *testing.T) {
	ctx := context.Background()
	students := &fakeDirectory{kind: notification.KindStudent, emails: map[string]string{"s1": "s1@test.test"}}
	svc, mailer, _ := setup(t, students)

	report, err := svc.Dispatch(ctx, notification.DispatchRequest{
		Recipients: []notification.Recipient{
			{ID: "s1", Kind: notification.KindStudent},
			{ID: "s1", Kind: notification.KindStudent},
		},
		Message: "Twice",
		Channel: notification.ChannelBoth,
	})
	if err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	assert.Len(t, report.Notifications, 2)
	assert.Len(t, mailer.sent, 2)

	notices, err := svc.QueryForRecipient(ctx, "s1", notification.KindStudent)
	if err != nil {
		t.Fatalf("QueryForRecipient() failed: %v", err)
	}
	assert.Len(t, notices, 2)
}

func TestService_Dispatch_defaultEmailSubject(t *testing.T) {
	ctx := context.Background()
	students := &fakeDirectory{kind: notification.KindStudent, emails: map[string]string{"s1": "s1@test.test"}}
	svc, mailer, _ := setup(t, students)

	_, err := svc.Dispatch(ctx, notification.DispatchRequest{
		Recipients: []notification.Recipient{{ID: "s1", Kind: notification.KindStudent}},
		Message:    "Hello",
		Channel:    notification.ChannelEmail,
	})
	if err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}
	if assert.Len(t, mailer.sent, 1) {
		assert.Equal(t, "New Notification", mailer.sent[0].Subject)
	}
}

func TestService_Broadcast(t *testing.T) {
	ctx := context.Background()
	students := &fakeDirectory{kind: notification.KindStudent, emails: map[string]string{
		"s1": "s1@test.test",
		"s2": "s2@test.test",
	}}
	svc, mailer, _ := setup(t, students)

	report, err := svc.Broadcast(ctx, notification.KindStudent, "Holiday on Friday", notification.ChannelBoth, "Holiday Notice")
	if err != nil {
		t.Fatalf("Broadcast() failed: %v", err)
	}

	assert.Len(t, report.Notifications, 2)
	assert.Equal(t, 2, report.Delivered())
	assert.Len(t, mailer.sent, 2)
	for _, msg := range mailer.sent {
		assert.Equal(t, "Holiday Notice", msg.Subject)
	}

	_, err = svc.Broadcast(ctx, notification.Kind("alien"), "nope", notification.ChannelInApp, "")
	assert.Equal(t, notification.ErrUnknownKind, err)
}

// signupDirectory registers a newcomer the moment the population has been
// listed, mimicking an account created while a broadcast is running.
type signupDirectory struct {
	fakeDirectory
	newcomerID    string
	newcomerEmail string
}

func (d *signupDirectory) List(ctx context.Context) ([]notification.Recipient, error) {
	recipients, err := d.fakeDirectory.List(ctx)
	d.emails[d.newcomerID] = d.newcomerEmail
	return recipients, err
}

func TestService_Broadcast_snapshotPopulation(t *testing.T) {
	ctx := context.Background()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewNotificationRepository(db)
	mailer := &fakeMailer{failTo: make(map[string]error)}
	students := &signupDirectory{
		fakeDirectory: fakeDirectory{kind: notification.KindStudent, emails: map[string]string{"s1": "s1@test.test"}},
		newcomerID:    "s2",
		newcomerEmail: "s2@test.test",
	}
	svc, err := notification.NewService(repo, mailer, nopLogger{}, map[notification.Kind]notification.Directory{
		notification.KindStudent: students,
		notification.KindFaculty: &fakeDirectory{kind: notification.KindFaculty, emails: make(map[string]string)},
		notification.KindAdmin:   &fakeDirectory{kind: notification.KindAdmin, emails: make(map[string]string)},
	})
	if err != nil {
		t.Fatalf("NewService() failed: %v", err)
	}

	report, err := svc.Broadcast(ctx, notification.KindStudent, "Holiday on Friday", notification.ChannelBoth, "")
	if err != nil {
		t.Fatalf("Broadcast() failed: %v", err)
	}

	// only the member present when the population was resolved is notified
	if assert.Len(t, report.Notifications, 1) {
		assert.Equal(t, "s1", report.Notifications[0].RecipientID)
	}
	if assert.Len(t, mailer.sent, 1) {
		assert.Equal(t, "s1@test.test", mailer.sent[0].To[0].Address)
	}

	notices, err := svc.QueryForRecipient(ctx, "s2", notification.KindStudent)
	if assert.NoError(t, err) {
		assert.Empty(t, notices)
	}
}

func TestService_Broadcast_listFailure(t *testing.T) {
	students := &fakeDirectory{kind: notification.KindStudent, err: errors.New("directory down")}
	svc, _, _ := setup(t, students)

	_, err := svc.Broadcast(context.Background(), notification.KindStudent, "Hello", notification.ChannelInApp, "")
	assert.Error(t, err)
}
