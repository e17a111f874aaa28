package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatBRL renders an amount the way the store persists currency:
// "R$ 1.234,56". Currency cells are text, so writes must match this shape
// exactly for later equality comparisons to work.
func FormatBRL(amount float64) string {
	negative := amount < 0
	cents := int64(math.Round(math.Abs(amount) * 100))
	intPart := cents / 100
	fracPart := cents % 100

	digits := strconv.FormatInt(intPart, 10)
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), fracPart)
}

// ParseBRL reads a stored currency cell back into a number. Strips the
// currency symbol and thousands dots, converts the decimal comma.
// Unparseable input reads as zero, noisy vendor data is expected.
func ParseBRL(raw string) float64 {
	if raw == "" {
		return 0
	}
	clean := strings.ReplaceAll(raw, "R$", "")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return value
}

// FormatOrderDate truncates a vendor "DD/MM/YYYY HH:MM:SS" timestamp to its
// date part. Anything not shaped like that formats as empty.
func FormatOrderDate(orderTimestamp string) string {
	if orderTimestamp == "" {
		return ""
	}
	datePart := strings.SplitN(strings.TrimSpace(orderTimestamp), " ", 2)[0]
	if parts := strings.Split(datePart, "/"); len(parts) == 3 {
		return fmt.Sprintf("%s/%s/%s", parts[0], parts[1], parts[2])
	}
	return ""
}

// ParseFlexibleDate accepts the date shapes seen in the store: DD/MM/YYYY
// (optionally with a time suffix), YYYY-MM-DD (optionally RFC3339-ish). Nil
// when nothing parses.
func ParseFlexibleDate(raw string) *time.Time {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil
	}

	if strings.Contains(cleaned, "/") {
		datePart := strings.SplitN(cleaned, " ", 2)[0]
		if t, err := time.Parse("02/01/2006", datePart); err == nil {
			return &t
		}
		return nil
	}

	if strings.Contains(cleaned, "-") {
		datePart := strings.SplitN(cleaned, "T", 2)[0]
		if t, err := time.Parse("2006-01-02", datePart); err == nil {
			return &t
		}
		return nil
	}

	return nil
}
