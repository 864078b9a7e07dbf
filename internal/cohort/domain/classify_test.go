package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	"github.com/smallbiznis/nasiya/internal/rating/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func debtAt(debtor snowflake.ID, day int, amount int64) ledgerdomain.Debt {
	return ledgerdomain.Debt{DebtorID: debtor, Amount: decimal.NewFromInt(amount), CreatedAt: base.AddDate(0, 0, day)}
}

func paymentAt(debtor snowflake.ID, day int, amount int64) ledgerdomain.Payment {
	return ledgerdomain.Payment{DebtorID: debtor, Amount: decimal.NewFromInt(amount), CreatedAt: base.AddDate(0, 0, day)}
}

func debtors(ids ...snowflake.ID) map[snowflake.ID]debtordomain.Debtor {
	out := make(map[snowflake.ID]debtordomain.Debtor, len(ids))
	for _, id := range ids {
		phone := fmt.Sprintf("+99890000%04d", int64(id))
		out[id] = debtordomain.Debtor{ID: id, FirstName: fmt.Sprintf("Name%d", id), LastName: "Test", PhoneNumber: &phone}
	}
	return out
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), WindowStart(now))
}

func TestClassifyMaturity(t *testing.T) {
	debts := []ledgerdomain.Debt{
		debtAt(2, 5, 1000),
		debtAt(1, 0, 1000),
		debtAt(3, 1, 1000),
		debtAt(4, 2, 1000),
	}
	payments := []ledgerdomain.Payment{
		paymentAt(1, 10, 300), // 10 days, qualifies
		paymentAt(2, 55, 500), // 50 days
		paymentAt(3, 20, 100), // below 30%
		paymentAt(3, 80, 400), // 79 days
	}

	members := ClassifyMaturity(debts, payments, debtors(1, 2, 3, 4))
	require.Len(t, members, 3)

	assert.Equal(t, snowflake.ID(1), members[0].DebtorID)
	assert.Equal(t, engine.CategoryGood, members[0].Category)
	assert.Equal(t, 1, members[0].ValidPayments)

	assert.Equal(t, snowflake.ID(3), members[1].DebtorID)
	assert.Equal(t, engine.CategoryBad, members[1].Category)
	assert.Equal(t, 2, members[1].PaymentCount)
	assert.InDelta(t, 79.0, members[1].AverageDays, 0.001)

	assert.Equal(t, snowflake.ID(2), members[2].DebtorID)
	assert.Equal(t, engine.CategoryAverage, members[2].Category)
}

func TestClassifyIntervals(t *testing.T) {
	payments := []ledgerdomain.Payment{
		paymentAt(1, 0, 10),
		paymentAt(1, 30, 10),
		paymentAt(1, 60, 10),
		paymentAt(2, 5, 10),
		paymentAt(3, 1, 10),
		paymentAt(3, 61, 10),
	}

	members := ClassifyIntervals(payments, debtors(1, 2, 3))
	require.Len(t, members, 2)
	assert.Equal(t, snowflake.ID(1), members[0].DebtorID)
	assert.Equal(t, engine.CategoryGood, members[0].Category)
	assert.Equal(t, 3, members[0].PaymentCount)
	assert.Equal(t, snowflake.ID(3), members[1].DebtorID)
	assert.Equal(t, engine.CategoryBad, members[1].Category)
}

func TestApplyFiltersSortsAndPaginates(t *testing.T) {
	phone := "+998901234567"
	members := []Member{
		{DebtorID: 1, FirstName: "Ali", LastName: "Valiyev", Category: engine.CategoryGood, AverageDays: 10, PaymentCount: 3},
		{DebtorID: 2, FirstName: "Bobur", LastName: "Karimov", Category: engine.CategoryBad, AverageDays: 70, PaymentCount: 1},
		{DebtorID: 3, FirstName: "Dilnoza", LastName: "Aliyeva", Category: engine.CategoryGood, AverageDays: 30, PaymentCount: 5, PhoneNumber: &phone},
		{DebtorID: 4, FirstName: "Sardor", LastName: "Umarov", Category: engine.CategoryAverage, AverageDays: 50, PaymentCount: 2},
	}

	t.Run("counts ignore filters", func(t *testing.T) {
		report, err := Apply(members, Query{Rating: "good"})
		require.NoError(t, err)
		assert.Equal(t, Counts{Good: 2, Average: 1, Bad: 1, Total: 4}, report.Counts)
		require.Len(t, report.Items, 2)
	})

	t.Run("search is case insensitive across name and phone", func(t *testing.T) {
		report, err := Apply(members, Query{Search: "ALI"})
		require.NoError(t, err)
		require.Len(t, report.Items, 2)
		assert.Equal(t, snowflake.ID(1), report.Items[0].DebtorID)
		assert.Equal(t, snowflake.ID(3), report.Items[1].DebtorID)

		report, err = Apply(members, Query{Search: "1234"})
		require.NoError(t, err)
		require.Len(t, report.Items, 1)
		assert.Equal(t, snowflake.ID(3), report.Items[0].DebtorID)
	})

	t.Run("sort by average days descending", func(t *testing.T) {
		report, err := Apply(members, Query{Sort: "average_days", Order: "desc"})
		require.NoError(t, err)
		require.Len(t, report.Items, 4)
		assert.Equal(t, snowflake.ID(2), report.Items[0].DebtorID)
		assert.Equal(t, snowflake.ID(1), report.Items[3].DebtorID)
	})

	t.Run("default keeps insertion order", func(t *testing.T) {
		report, err := Apply(members, Query{})
		require.NoError(t, err)
		assert.Equal(t, snowflake.ID(1), report.Items[0].DebtorID)
		assert.Equal(t, snowflake.ID(4), report.Items[3].DebtorID)
	})

	t.Run("pagination", func(t *testing.T) {
		report, err := Apply(members, Query{Page: 2, PageSize: 3})
		require.NoError(t, err)
		require.Len(t, report.Items, 1)
		assert.Equal(t, 2, report.Pagination.TotalPages)
		assert.Equal(t, 4, report.Pagination.Total)

		report, err = Apply(members, Query{Page: 5, PageSize: 3})
		require.NoError(t, err)
		assert.Empty(t, report.Items)
	})

	t.Run("invalid rating and sort", func(t *testing.T) {
		_, err := Apply(members, Query{Rating: "excellent"})
		assert.ErrorIs(t, err, ErrInvalidRating)
		_, err = Apply(members, Query{Sort: "balance"})
		assert.ErrorIs(t, err, ErrInvalidSort)
	})
}
