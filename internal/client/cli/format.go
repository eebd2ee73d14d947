package cli

import (
	"strconv"
	"strings"
	"time"
)

const (
	dateFormat   = "2006-01-02 15:04:05"
	separatorLen = 60
)

// formatRupiah renders an amount with dots as thousands separators,
// e.g. 1500000 -> "Rp1.500.000".
func formatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return sign + "Rp" + b.String()
}

func formatTime(t time.Time) string {
	return t.Local().Format(dateFormat)
}

func separator() string {
	return strings.Repeat("=", separatorLen)
}
