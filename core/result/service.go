package result

import (
	"context"
	"fmt"
	"time"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/notification"
	"github.com/campushq/campus/core/student"
)

type (
	Repository interface {
		// CreateResult persists a result atomically; the storage layer owns
		// the (roll_number, term) uniqueness constraint and must return
		// ErrExists on a duplicate, including under concurrent inserts.
		CreateResult(ctx context.Context, res Result) (Result, error)
		GetResultByID(ctx context.Context, id string) (Result, error)
		// QueryResultsByRollNumber returns a student's results ordered by term.
		QueryResultsByRollNumber(ctx context.Context, rollNumber string) ([]Result, error)
	}

	// Students is the slice of the student service the store needs.
	Students interface {
		GetByRollNumber(ctx context.Context, rollNumber string) (student.Student, error)
	}

	// Notifier dispatches the post-upload notification.
	Notifier interface {
		Dispatch(ctx context.Context, req notification.DispatchRequest) (notification.Report, error)
	}

	Service struct {
		repo     Repository
		students Students
		notifier Notifier
		log      core.Logger
	}
)

func NewService(repo Repository, students Students, notifier Notifier, logger core.Logger) *Service {
	return &Service{repo: repo, students: students, notifier: notifier, log: logger}
}

// Upload validates and stores a new term result. Derived fields (per-subject
// grades, percentage, grade, status) are recomputed here, synchronously,
// before the record is persisted; callers cannot set them. Once the record is
// committed the student is notified in-app and by email — a notification
// failure is logged and never undoes the stored result.
func (svc *Service) Upload(ctx context.Context, nr NewResult, uploadedBy string) (Result, error) {
	std, err := svc.students.GetByRollNumber(ctx, nr.RollNumber)
	if err != nil {
		return Result{}, err
	}

	maxTotal := nr.MaxTotal
	if maxTotal == 0 {
		maxTotal = DefaultMaxTotal
	}

	subjects := make([]Subject, 0, len(nr.Subjects))
	for _, sub := range nr.Subjects {
		if sub.MaxMarks == 0 {
			sub.MaxMarks = DefaultSubjectMax
		}
		sub.Grade = DeriveSubject(sub.Marks, sub.MaxMarks)
		subjects = append(subjects, sub)
	}

	agg := DeriveAggregate(nr.TotalMarks, maxTotal)
	now := time.Now().UTC()
	res := Result{
		RollNumber: std.RollNumber,
		Term:       nr.Term,
		Subjects:   subjects,
		TotalMarks: nr.TotalMarks,
		MaxTotal:   maxTotal,
		Percentage: agg.Percentage,
		Grade:      agg.Grade,
		Status:     agg.Status,
		Remarks:    nr.Remarks,
		UploadedBy: uploadedBy,
		UploadedAt: now,
		CreatedAt:  now,
	}

	res, err = svc.repo.CreateResult(ctx, res)
	if err != nil {
		return Result{}, err
	}

	// fan-out; the result is committed, failures here are logged only
	if _, err := svc.notifier.Dispatch(ctx, notification.DispatchRequest{
		Recipients:   []notification.Recipient{{ID: std.ID, Kind: notification.KindStudent}},
		Message:      fmt.Sprintf("Your result for term %d is uploaded. Total marks: %g/%g", res.Term, res.TotalMarks, res.MaxTotal),
		Channel:      notification.ChannelBoth,
		EmailSubject: "Result Uploaded",
	}); err != nil {
		svc.log.Error(fmt.Sprintf("dispatching result notification: %v", err), err)
	}
	return res, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Result, error) {
	return svc.repo.GetResultByID(ctx, id)
}

func (svc *Service) QueryByRollNumber(ctx context.Context, rollNumber string) ([]Result, error) {
	return svc.repo.QueryResultsByRollNumber(ctx, core.CleanString(rollNumber, true /* lower */))
}
