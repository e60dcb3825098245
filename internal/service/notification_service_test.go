package service_test

import (
	"context"
	"errors"
	"testing"

	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_InAppOnly(t *testing.T) {
	u := &model.User{Username: "ravi", Active: true}
	repo := &stubNotificationRepo{}
	d := &stubDispatcher{}
	svc := service.NewNotificationService(repo, newStubUserRepo(u), d)

	n, err := svc.Notify(context.Background(), service.NotifyInput{UserID: u.ID, Title: "Hello", Message: "World"})
	require.NoError(t, err)
	assert.Equal(t, model.KindInfo, n.Kind)
	assert.Equal(t, model.EmailNone, n.EmailStatus)
	assert.Empty(t, d.emails)
}

func TestNotify_EmailQueuedWhenAddressKnown(t *testing.T) {
	email := "ravi@avyyan.in"
	u := &model.User{Username: "ravi", Email: &email, Active: true}
	repo := &stubNotificationRepo{}
	d := &stubDispatcher{}
	svc := service.NewNotificationService(repo, newStubUserRepo(u), d)

	n, err := svc.Notify(context.Background(), service.NotifyInput{UserID: u.ID, Title: "Done", Email: true})
	require.NoError(t, err)
	assert.Equal(t, model.EmailPending, n.EmailStatus)
	require.Len(t, d.emails, 1)
	assert.Equal(t, n.ID, d.emails[0].NotificationID)
}

func TestNotify_EmailWithoutAddress(t *testing.T) {
	u := &model.User{Username: "ravi", Active: true}
	d := &stubDispatcher{}
	svc := service.NewNotificationService(&stubNotificationRepo{}, newStubUserRepo(u), d)

	n, err := svc.Notify(context.Background(), service.NotifyInput{UserID: u.ID, Title: "Done", Email: true})
	require.NoError(t, err)
	assert.Equal(t, model.EmailNone, n.EmailStatus)
	assert.Empty(t, d.emails)
}

func TestNotify_EnqueueFailureDefersToRetryCron(t *testing.T) {
	email := "ravi@avyyan.in"
	u := &model.User{Username: "ravi", Email: &email, Active: true}
	d := &stubDispatcher{emailErr: errors.New("redis down")}
	svc := service.NewNotificationService(&stubNotificationRepo{}, newStubUserRepo(u), d)

	n, err := svc.Notify(context.Background(), service.NotifyInput{UserID: u.ID, Title: "Done", Email: true})
	require.NoError(t, err)
	assert.Equal(t, model.EmailPending, n.EmailStatus)
	assert.NotNil(t, n.NextRetryAt)
	require.NotNil(t, n.LastError)
	assert.Equal(t, "redis down", *n.LastError)
}

func TestNotification_ListReadFlow(t *testing.T) {
	me := &model.User{Username: "ravi", Active: true}
	other := &model.User{Username: "meena", Active: true}
	repo := &stubNotificationRepo{}
	svc := service.NewNotificationService(repo, newStubUserRepo(me, other), nil)
	ctx := context.Background()

	var first *model.Notification
	for i := 0; i < 3; i++ {
		n, err := svc.Notify(ctx, service.NotifyInput{UserID: me.ID, Title: "n"})
		require.NoError(t, err)
		if first == nil {
			first = n
		}
	}
	_, err := svc.Notify(ctx, service.NotifyInput{UserID: other.ID, Title: "theirs"})
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, me.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, svc.MarkRead(ctx, me.ID, first.ID))
	require.NoError(t, svc.MarkRead(ctx, me.ID, first.ID), "marking twice is fine")

	list, err := svc.List(ctx, me.ID, dto.NotificationFilter{UnreadOnly: true, Page: 1, Limit: 30})
	require.NoError(t, err)
	assert.Len(t, list.Data, 2)
	assert.EqualValues(t, 2, list.Unread)

	err = svc.MarkRead(ctx, other.ID, first.ID)
	assert.ErrorIs(t, err, service.ErrNotFound, "cannot touch another user's notification")
	err = svc.MarkRead(ctx, me.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)

	n, err := svc.MarkAllRead(ctx, me.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	count, err = svc.UnreadCount(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	all, err := svc.List(ctx, me.ID, dto.NotificationFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Data, 3)
	assert.True(t, all.Data[0].Read)
}
