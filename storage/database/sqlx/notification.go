package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/notification"
)

type notificationRow struct {
	ID            string    `db:"id"`
	RecipientID   string    `db:"recipient_id"`
	RecipientKind string    `db:"recipient_kind"`
	Message       string    `db:"message"`
	Channel       string    `db:"channel"`
	CreatedAt     time.Time `db:"created_at"`
}

var notificationColumns = []string{
	"id", "recipient_id", "recipient_kind", "message", "channel", "created_at",
}

func (r notificationRow) toNotification() notification.Notification {
	return notification.Notification{
		ID:            r.ID,
		RecipientID:   r.RecipientID,
		RecipientKind: notification.Kind(r.RecipientKind),
		Message:       r.Message,
		Channel:       notification.Channel(r.Channel),
		CreatedAt:     r.CreatedAt,
	}
}

type notificationRepository struct {
	exec core.DBExecutor
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(exec core.DBExecutor) *notificationRepository {
	return &notificationRepository{exec: exec}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, nt notification.Notification) (notification.Notification, error) {
	nt.ID = uuid.New().String()
	query, args, err := psql.Insert("notification").Columns(notificationColumns...).
		Values(nt.ID, nt.RecipientID, string(nt.RecipientKind), nt.Message, string(nt.Channel), nt.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "building notification insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return nt, nil
}

func (repo notificationRepository) QueryNotificationsForRecipient(ctx context.Context, recipientID string, kind notification.Kind) ([]notification.Notification, error) {
	query, args, err := psql.Select(notificationColumns...).From("notification").
		Where(sq.Eq{"recipient_id": recipientID, "recipient_kind": string(kind)}).
		OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building notification query")
	}
	var rows []notificationRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	notices := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		notices = append(notices, row.toNotification())
	}
	return notices, nil
}
