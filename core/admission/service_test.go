package admission_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/admission"
	"github.com/campushq/campus/core/notification"
	dummydb "github.com/campushq/campus/storage/database/dummy"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []core.EmailMessage
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg *core.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, *msg)
	return nil
}

type fakeNotifier struct {
	requests []notification.DispatchRequest
}

func (f *fakeNotifier) Dispatch(ctx context.Context, req notification.DispatchRequest) (notification.Report, error) {
	f.requests = append(f.requests, req)
	return notification.Report{}, nil
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) (*admission.Service, *fakeMailer, *fakeNotifier, admission.Admission) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := dummydb.NewAdmissionRepository(db)
	adm := repo.SeedAdmission(admission.Admission{
		StudentID:    "std-1",
		CourseID:     "crs-1",
		AppliedAt:    time.Now().UTC(),
		StudentName:  "Aisha",
		StudentEmail: "aisha@test.test",
		CourseName:   "BSc Computer Science",
	})
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{}
	svc := admission.NewService(repo, mailer, notifier, nopLogger{})
	return svc, mailer, notifier, adm
}

func TestService_Decide_approved(t *testing.T) {
	ctx := context.Background()
	svc, mailer, notifier, adm := setup(t)

	decided, err := svc.Decide(ctx, adm.ID, admission.Decision{Status: admission.StatusApproved}, "admin-1")
	if err != nil {
		t.Fatalf("Decide() failed: %v", err)
	}

	assert.Equal(t, admission.StatusApproved, decided.Status)
	assert.Equal(t, "admin-1", decided.DecidedBy)
	if assert.NotNil(t, decided.DecidedAt) {
		assert.False(t, decided.DecidedAt.IsZero())
	}

	// approval email carries the payment instruction
	if assert.Len(t, mailer.sent, 1) {
		msg := mailer.sent[0]
		assert.Equal(t, "Admission Update", msg.Subject)
		assert.Equal(t, "aisha@test.test", msg.To[0].Address)
		assert.Contains(t, msg.Body, "Your admission for BSc Computer Science is approved.")
		assert.Contains(t, msg.Body, "Please pay the full fee.")
	}

	// one in-app notice to the student
	if assert.Len(t, notifier.requests, 1) {
		req := notifier.requests[0]
		assert.Equal(t, []notification.Recipient{{ID: "std-1", Kind: notification.KindStudent}}, req.Recipients)
		assert.Equal(t, notification.ChannelInApp, req.Channel)
		assert.Equal(t, "Admission approved", req.Message)
	}
}

func TestService_Decide_rejected(t *testing.T) {
	ctx := context.Background()
	svc, mailer, notifier, adm := setup(t)

	decided, err := svc.Decide(ctx, adm.ID, admission.Decision{Status: admission.StatusRejected}, "admin-1")
	if err != nil {
		t.Fatalf("Decide() failed: %v", err)
	}

	assert.Equal(t, admission.StatusRejected, decided.Status)
	if assert.Len(t, mailer.sent, 1) {
		assert.Contains(t, mailer.sent[0].Body, "is rejected.")
		assert.NotContains(t, mailer.sent[0].Body, "pay the full fee")
	}
	if assert.Len(t, notifier.requests, 1) {
		assert.Equal(t, "Admission rejected", notifier.requests[0].Message)
	}
}

// decisions are terminal: a second decision fails and changes nothing.
func TestService_Decide_terminal(t *testing.T) {
	ctx := context.Background()
	svc, mailer, _, adm := setup(t)

	if _, err := svc.Decide(ctx, adm.ID, admission.Decision{Status: admission.StatusApproved}, "admin-1"); err != nil {
		t.Fatalf("Decide() failed: %v", err)
	}

	_, err := svc.Decide(ctx, adm.ID, admission.Decision{Status: admission.StatusRejected}, "admin-2")
	assert.Equal(t, admission.ErrDecided, err)

	got, err := svc.GetByID(ctx, adm.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	assert.Equal(t, admission.StatusApproved, got.Status)
	assert.Equal(t, "admin-1", got.DecidedBy)
	assert.Len(t, mailer.sent, 1)
}

func TestService_Decide_concurrentDecides(t *testing.T) {
	ctx := context.Background()
	svc, _, _, adm := setup(t)

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			status := admission.StatusApproved
			if n%2 == 1 {
				status = admission.StatusRejected
			}
			_, err := svc.Decide(ctx, adm.ID, admission.Decision{Status: status}, "admin-1")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, decided int
	for err := range errs {
		switch err {
		case nil:
			ok++
		case admission.ErrDecided:
			decided++
		default:
			t.Fatalf("Decide() unexpected error: %v", err)
		}
	}
	// exactly one decision commits; the terminal state is never overwritten
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, decided)
}

func TestService_Decide_notFound(t *testing.T) {
	svc, _, _, _ := setup(t)

	_, err := svc.Decide(context.Background(), "missing", admission.Decision{Status: admission.StatusApproved}, "admin-1")
	assert.Equal(t, admission.ErrNotFound, err)
}

// an unreachable mailbox never rolls the decision back.
func TestService_Decide_emailFailureIsTolerated(t *testing.T) {
	ctx := context.Background()
	svc, mailer, notifier, adm := setup(t)
	mailer.err = assert.AnError

	decided, err := svc.Decide(ctx, adm.ID, admission.Decision{Status: admission.StatusApproved}, "admin-1")
	if err != nil {
		t.Fatalf("Decide() failed: %v", err)
	}
	assert.Equal(t, admission.StatusApproved, decided.Status)
	// the in-app leg still runs
	assert.Len(t, notifier.requests, 1)
}

func TestService_Decide_noEmailOnRecord(t *testing.T) {
	ctx := context.Background()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewAdmissionRepository(db)
	adm := repo.SeedAdmission(admission.Admission{
		StudentID:  "std-2",
		CourseID:   "crs-1",
		AppliedAt:  time.Now().UTC(),
		CourseName: "BA History",
	})
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{}
	svc := admission.NewService(repo, mailer, notifier, nopLogger{})

	decided, err := svc.Decide(ctx, adm.ID, admission.Decision{Status: admission.StatusRejected}, "admin-1")
	if err != nil {
		t.Fatalf("Decide() failed: %v", err)
	}
	assert.Equal(t, admission.StatusRejected, decided.Status)
	assert.Empty(t, mailer.sent)
	assert.Len(t, notifier.requests, 1)
}

func TestDecision_Validate(t *testing.T) {
	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)

	tests := []struct {
		name    string
		dec     admission.Decision
		wantErr bool
	}{
		{name: "approved", dec: admission.Decision{Status: admission.StatusApproved}},
		{name: "rejected", dec: admission.Decision{Status: admission.StatusRejected}},
		{name: "missing", dec: admission.Decision{}, wantErr: true},
		{name: "pending is not a decision", dec: admission.Decision{Status: admission.StatusPending}, wantErr: true},
		{name: "unknown", dec: admission.Decision{Status: admission.Status("maybe")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dec.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
