package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/notification/domain"
	"github.com/smallbiznis/nasiya/internal/notification/repository"
	"github.com/smallbiznis/nasiya/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingChannel struct {
	err       error
	delivered []domain.Notification
}

func (c *recordingChannel) Name() string { return "recording" }

func (c *recordingChannel) Deliver(_ context.Context, n domain.Notification) error {
	c.delivered = append(c.delivered, n)
	return c.err
}

func newTestService(t *testing.T, channels ...domain.Channel) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()
	db := dbtest.Open(t, &domain.Notification{})
	clk := clock.NewFakeClock(time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    dbtest.Node(t),
		Repo:     repository.Provide(),
		Clock:    clk,
		Channels: channels,
	})
	return svc, db, clk
}

func TestNotifyPersistsAndFansOut(t *testing.T) {
	ch := &recordingChannel{}
	svc, db, _ := newTestService(t, ch)

	n, err := svc.Notify(context.Background(), domain.PaymentReceived(snowflake.ID(11), "Ali", "Valiyev", decimalOf(1000)))
	require.NoError(t, err)

	var stored domain.Notification
	require.NoError(t, db.First(&stored, "id = ?", n.ID).Error)
	assert.False(t, stored.IsRead)
	require.NotNil(t, stored.DebtorID)
	assert.Equal(t, snowflake.ID(11), *stored.DebtorID)
	require.Len(t, ch.delivered, 1)
}

func TestNotifyIgnoresChannelFailure(t *testing.T) {
	ch := &recordingChannel{err: errors.New("telegram down")}
	svc, db, _ := newTestService(t, ch)

	_, err := svc.Notify(context.Background(), domain.HostingReminder(time.Now()))
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNotifyValidatesInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Notify(context.Background(), domain.Input{Type: "SOMETHING", Title: "t", Message: "m"})
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	_, err = svc.Notify(context.Background(), domain.Input{Type: domain.TypeDebtAdded, Title: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)
}

func TestListUnreadAndMarkRead(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	var ids []snowflake.ID
	for i := 0; i < 3; i++ {
		n, err := svc.Notify(ctx, domain.HostingReminder(clk.Now()))
		require.NoError(t, err)
		ids = append(ids, n.ID)
		clk.Advance(time.Minute)
	}

	unread, err := svc.ListUnread(ctx, 0)
	require.NoError(t, err)
	require.Len(t, unread, 3)
	assert.Equal(t, ids[2], unread[0].ID, "newest first")

	require.NoError(t, svc.MarkRead(ctx, ids[0].String()))
	unread, err = svc.ListUnread(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	assert.ErrorIs(t, svc.MarkRead(ctx, "abc"), domain.ErrInvalidID)
	assert.ErrorIs(t, svc.MarkRead(ctx, "12345"), domain.ErrNotFound)

	affected, err := svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	unread, err = svc.ListUnread(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestHostingReminderOncePerMonthOnDaySix(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.HostingReminder(ctx, time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC), false)
	require.NoError(t, err)
	assert.False(t, created, "day 5 is skipped")

	created, err = svc.HostingReminder(ctx, time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC), false)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.HostingReminder(ctx, time.Date(2025, 3, 6, 18, 0, 0, 0, time.UTC), false)
	require.NoError(t, err)
	assert.False(t, created, "second run in the same month is a no-op")

	created, err = svc.HostingReminder(ctx, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), true)
	require.NoError(t, err)
	assert.True(t, created, "force bypasses day and month checks")
}

func decimalOf(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
