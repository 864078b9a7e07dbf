package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/nasiya/internal/audit/domain"
	auditrepo "github.com/smallbiznis/nasiya/internal/audit/repository"
	auditservice "github.com/smallbiznis/nasiya/internal/audit/service"
	"github.com/smallbiznis/nasiya/internal/cache"
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/settings/domain"
	"github.com/smallbiznis/nasiya/pkg/db/dbtest"
	"github.com/smallbiznis/nasiya/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t, &domain.Setting{}, &auditdomain.AuditLog{})
	clk := clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	audit := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: dbtest.Node(t),
		Repo:  auditrepo.Provide(),
		Clock: clk,
	})
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Repo:  repository.ProvideStore[domain.Setting](db),
		Cache: cache.NewSettingsCache(),
		Audit: audit,
		Clock: clk,
	})
	return svc, db
}

func TestDebtLimitDefaultsWhenAbsent(t *testing.T) {
	svc, _ := newTestService(t)
	assert.True(t, svc.DebtLimit(context.Background()).Equal(decimal.NewFromInt(2_000_000)))
}

func TestDebtLimitFallsBackOnGarbage(t *testing.T) {
	svc, db := newTestService(t)
	require.NoError(t, db.Create(&domain.Setting{Key: domain.KeyDebtLimit, Value: "abc", UpdatedAt: time.Now()}).Error)
	assert.True(t, svc.DebtLimit(context.Background()).Equal(domain.DefaultDebtLimit))
}

func TestSetInvalidatesCachedLimit(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	assert.True(t, svc.DebtLimit(ctx).Equal(domain.DefaultDebtLimit))

	_, err := svc.Set(ctx, domain.SetRequest{Key: domain.KeyDebtLimit, Value: "500000"})
	require.NoError(t, err)
	assert.True(t, svc.DebtLimit(ctx).Equal(decimal.NewFromInt(500000)))

	_, err = svc.Set(ctx, domain.SetRequest{Key: domain.KeyDebtLimit, Value: "750000"})
	require.NoError(t, err)
	assert.True(t, svc.DebtLimit(ctx).Equal(decimal.NewFromInt(750000)))

	var audits []auditdomain.AuditLog
	require.NoError(t, db.Order("id asc").Find(&audits).Error)
	require.Len(t, audits, 2)
	assert.Equal(t, "500000", audits[1].Metadata["previous_value"])
}

func TestSetValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.SetRequest
		want error
	}{
		{"missing key", domain.SetRequest{Value: "1"}, domain.ErrInvalidKey},
		{"missing value", domain.SetRequest{Key: "theme"}, domain.ErrInvalidValue},
		{"negative limit", domain.SetRequest{Key: domain.KeyDebtLimit, Value: "-1"}, domain.ErrInvalidValue},
		{"non numeric limit", domain.SetRequest{Key: domain.KeyDebtLimit, Value: "lots"}, domain.ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Set(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetAndAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Set(ctx, domain.SetRequest{Key: "shop_name", Value: "Baraka"})
	require.NoError(t, err)
	_, err = svc.Set(ctx, domain.SetRequest{Key: domain.KeyDebtLimit, Value: "1000"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "shop_name")
	require.NoError(t, err)
	assert.Equal(t, "Baraka", got.Value)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.KeyDebtLimit, all[0].Key)
}
