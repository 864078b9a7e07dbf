package repository

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/nasiya/internal/audit/domain"
	"github.com/smallbiznis/nasiya/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiltersAndPagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t, &domain.AuditLog{})
	node := dbtest.Node(t)
	r := Provide()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	debtorID := "101"
	for i, action := range []string{domain.ActionCreate, domain.ActionDebtAdded, domain.ActionPaymentAdded} {
		require.NoError(t, r.Insert(ctx, db, &domain.AuditLog{
			ID:         node.Generate(),
			Action:     action,
			EntityType: domain.EntityDebtor,
			EntityID:   &debtorID,
			ActorType:  "system",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, r.Insert(ctx, db, &domain.AuditLog{
		ID:         node.Generate(),
		Action:     domain.ActionUpdate,
		EntityType: domain.EntitySettings,
		ActorType:  "system",
		CreatedAt:  base.Add(time.Hour),
	}))

	logs, err := r.List(ctx, db, domain.ListFilter{EntityType: domain.EntityDebtor, EntityID: " 101 ", Limit: 2})
	require.NoError(t, err)
	require.Len(t, logs, 3, "one extra row signals another page")
	assert.Equal(t, domain.ActionPaymentAdded, logs[0].Action)

	next, err := r.List(ctx, db, domain.ListFilter{
		EntityType: domain.EntityDebtor,
		Cursor:     &domain.AuditCursor{ID: logs[1].ID, CreatedAt: logs[1].CreatedAt},
		Limit:      2,
	})
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, domain.ActionCreate, next[0].Action)

	start := base.Add(30 * time.Minute)
	recent, err := r.List(ctx, db, domain.ListFilter{StartAt: &start})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, domain.EntitySettings, recent[0].EntityType)
}
