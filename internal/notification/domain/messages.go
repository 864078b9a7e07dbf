package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// OverduePayment is raised when a debtor is first flagged overdue. The
// balance is printed without grouping.
func OverduePayment(debtorID snowflake.ID, firstName, lastName string, totalDebt decimal.Decimal) Input {
	return Input{
		DebtorID: &debtorID,
		Type:     TypeOverduePayment,
		Title:    "Muddati o'tgan to'lov",
		Message: fmt.Sprintf("%s 45 kundan beri to'lov qilmagan. Qarz: %s so'm",
			fullName(firstName, lastName), totalDebt.String()),
	}
}

func DebtLimitExceeded(debtorID snowflake.ID, firstName, lastName string, totalDebt decimal.Decimal) Input {
	return Input{
		DebtorID: &debtorID,
		Type:     TypeDebtLimitExceeded,
		Title:    "Qarz limiti oshdi",
		Message: fmt.Sprintf("%s qarz limiti oshdi: %s so'm",
			fullName(firstName, lastName), FormatAmount(totalDebt)),
	}
}

func PaymentReceived(debtorID snowflake.ID, firstName, lastName string, amount decimal.Decimal) Input {
	return Input{
		DebtorID: &debtorID,
		Type:     TypePaymentReceived,
		Title:    "To'lov qabul qilindi",
		Message: fmt.Sprintf("%s - %s so'm to'lov qildi",
			fullName(firstName, lastName), FormatAmount(amount)),
	}
}

func HostingReminder(now time.Time) Input {
	now = now.UTC()
	return Input{
		Type:    TypeHostingReminder,
		Title:   "Hosting uchun to'lov yaqinlashmoqda",
		Message: fmt.Sprintf("%d-yil %d-oyning hosting to'lovi haqida eslatma.", now.Year(), int(now.Month())),
	}
}

// FormatAmount renders a sum with comma thousands separators. Fractions are
// kept only when non-zero.
func FormatAmount(amount decimal.Decimal) string {
	amount = amount.Round(2)
	whole := amount.Truncate(0)

	out := amountPrinter.Sprintf("%d", whole.IntPart())
	if amount.IsNegative() && whole.IsZero() {
		out = "-" + out
	}
	if frac := strings.TrimRight(amount.Sub(whole).Abs().StringFixed(2)[2:], "0"); frac != "" {
		out += "." + frac
	}
	return out
}

func fullName(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}
