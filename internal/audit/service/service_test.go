package service

import (
	"context"
	"testing"
	"time"

	auditdomain "github.com/smallbiznis/nasiya/internal/audit/domain"
	"github.com/smallbiznis/nasiya/internal/audit/repository"
	"github.com/smallbiznis/nasiya/internal/clock"
	obscontext "github.com/smallbiznis/nasiya/internal/observability/context"
	"github.com/smallbiznis/nasiya/pkg/db/dbtest"
	"github.com/smallbiznis/nasiya/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (auditdomain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()
	db := dbtest.Open(t, &auditdomain.AuditLog{})
	node := dbtest.Node(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: clk,
	})
	return svc, db, clk
}

func TestRecordUsesContextActorAndMasksContacts(t *testing.T) {
	svc, db, _ := newTestService(t)

	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = obscontext.WithActor(ctx, "api_key", "dashboard")
	ctx = obscontext.WithClient(ctx, "10.0.0.1", "curl/8")

	err := svc.Record(ctx, nil, auditdomain.Entry{
		Action:     auditdomain.ActionCreate,
		EntityType: auditdomain.EntityDebtor,
		EntityID:   "42",
		Metadata:   map[string]any{"first_name": "Ali", "phone_number": "+998901234567"},
	})
	require.NoError(t, err)

	var stored auditdomain.AuditLog
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "api_key", stored.ActorType)
	require.NotNil(t, stored.ActorID)
	assert.Equal(t, "dashboard", *stored.ActorID)
	require.NotNil(t, stored.IPAddress)
	assert.Equal(t, "10.0.0.1", *stored.IPAddress)
	assert.Equal(t, "req-1", stored.Metadata["request_id"])
	assert.Equal(t, "****4567", stored.Metadata["phone_number"])
}

func TestRecordRejectsEmptyAction(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.Record(context.Background(), nil, auditdomain.Entry{EntityType: auditdomain.EntityDebt})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidAction)
}

func TestRecordJoinsCallerTransaction(t *testing.T) {
	svc, db, _ := newTestService(t)

	_ = db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, svc.Record(context.Background(), tx, auditdomain.Entry{
			Action:     auditdomain.ActionDebtAdded,
			EntityType: auditdomain.EntityDebt,
		}))
		return assert.AnError
	})

	var count int64
	require.NoError(t, db.Model(&auditdomain.AuditLog{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "rolled back transaction must drop the audit row")
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, nil, auditdomain.Entry{
			Action:     auditdomain.ActionPaymentAdded,
			EntityType: auditdomain.EntityPayment,
		}))
		clk.Advance(time.Minute)
	}

	first, err := svc.List(ctx, auditdomain.ListAuditLogRequest{
		Pagination: paginationOf("", 2),
	})
	require.NoError(t, err)
	require.Len(t, first.AuditLogs, 2)
	assert.True(t, first.HasMore)
	assert.True(t, first.AuditLogs[0].CreatedAt.After(first.AuditLogs[1].CreatedAt))

	second, err := svc.List(ctx, auditdomain.ListAuditLogRequest{
		Pagination: paginationOf(first.NextPageToken, 2),
	})
	require.NoError(t, err)
	require.Len(t, second.AuditLogs, 1)
	assert.False(t, second.HasMore)
}

func TestListRejectsBadToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.List(context.Background(), auditdomain.ListAuditLogRequest{
		Pagination: paginationOf("not-base64!", 10),
	})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidPageToken)
}

func paginationOf(token string, size int) pagination.Pagination {
	return pagination.Pagination{PageToken: token, PageSize: size}
}
