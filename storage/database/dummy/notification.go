package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/campushq/campus/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db.notification}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, nt notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	nt.ID = uuid.New().String()
	repo.db.table[nt.ID] = &nt
	return nt, nil
}

func (repo *notificationRepository) QueryNotificationsForRecipient(ctx context.Context, recipientID string, kind notification.Kind) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notices := make([]notification.Notification, 0)
	for _, nt := range repo.db.table {
		if nt.RecipientID == recipientID && nt.RecipientKind == kind {
			notices = append(notices, *nt)
		}
	}
	sort.Slice(notices, func(i, j int) bool { return notices[i].CreatedAt.After(notices[j].CreatedAt) })
	return notices, nil
}
