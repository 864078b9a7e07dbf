package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestDescribeSQL(t *testing.T) {
	tests := []struct {
		sql, op, table string
	}{
		{`SELECT * FROM "debtors" WHERE id = 1`, "SELECT", "debtors"},
		{"INSERT INTO `payments` (`id`) VALUES (1)", "INSERT", "payments"},
		{`UPDATE "debtors" SET total_debt = 0`, "UPDATE", "debtors"},
		{"  delete from debts where debtor_id = 1", "DELETE", "debts"},
		{"WITH recent AS (SELECT id FROM payments) INSERT INTO debts(id) SELECT id FROM recent", "INSERT", "debts"},
		{"", "UNKNOWN", ""},
	}
	for _, tt := range tests {
		op, table := describeSQL(tt.sql)
		assert.Equal(t, tt.op, op, tt.sql)
		assert.Equal(t, tt.table, table, tt.sql)
	}
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), 50*time.Millisecond)
	ctx := context.Background()
	query := func() (string, int64) { return `SELECT * FROM "debtors"`, 2 }

	l.Trace(ctx, time.Now(), query, nil)
	assert.Zero(t, logs.Len(), "fast queries stay quiet at warn level")

	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "debtors", entry.ContextMap()["table"])
	assert.Equal(t, true, entry.ContextMap()["slow"])

	l.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 1, logs.Len())

	l.Trace(ctx, time.Now(), query, errors.New("boom"))
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)

	l.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query, errors.New("boom"))
	assert.Equal(t, 2, logs.Len())
}
