package view

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultTruncateLength = 100

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders amount as US dollars, e.g. "$1,234.50" or "-$3.00".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) {
		return "NaN"
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	if math.IsInf(amount, 1) {
		return sign + "$∞"
	}
	return sign + "$" + usPrinter.Sprintf("%.2f", amount)
}

// TruncateText cuts text to maxLength runes and appends "..." when it was longer.
func TruncateText(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	if maxLength < 0 {
		maxLength = 0
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	return string([]rune(text)[:maxLength]) + "..."
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML replaces the five HTML-significant characters with entities.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}
