package estimate

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatCurrency renders an amount as dollars with thousands separators and
// exactly two decimals, e.g. $1,234.56 or -$5.00.
func FormatCurrency(amount float64) string {
	// Round first so amounts that round to zero print without a sign.
	amount = Round2(amount)
	sign := ""
	switch {
	case amount == 0:
		amount = 0 // drop negative zero
	case amount < 0:
		sign = "-"
		amount = -amount
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", amount)
}

// Summary renders a breakdown as a short plain-text report.
func Summary(b CostBreakdown) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Labour: %s\n", FormatCurrency(b.LabourCost))
	fmt.Fprintf(&sb, "Equipment: %s\n", FormatCurrency(b.EquipmentCost))
	fmt.Fprintf(&sb, "Subtotal: %s\n", FormatCurrency(b.Subtotal))
	fmt.Fprintf(&sb, "GST (10%%): %s\n", FormatCurrency(b.GST))
	fmt.Fprintf(&sb, "Total: %s\n", FormatCurrency(b.TotalCost))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Work Type: %s\n", b.WorkType)
	fmt.Fprintf(&sb, "Total Hours: %.2f\n", b.TotalHours)
	fmt.Fprintf(&sb, "Discount: %.1f%%\n", b.DiscountPercent*100)
	return sb.String()
}
