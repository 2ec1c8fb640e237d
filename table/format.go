package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Date format tokens and their Go layout equivalents.
var dateTokens = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// Format renders a cell value as a display label.
//
// Numbers accept patterns like "0", "0.00", "#,0.0", "0.0%" or "$#,0":
// the number of digits after the dot sets the decimals, a comma enables
// digit grouping and a trailing % scales by 100. Text around the digits
// is kept. Times accept patterns built from yyyy, yy, MM, dd, HH, mm and
// ss. Missing values format as the empty string.
func Format(v any, format string) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return formatTime(v, format)
	}
	if f, ok := Number(v); ok {
		_, isFloat := v.(float64)
		return formatNumber(f, !isFloat, format)
	}
	return fmt.Sprint(v)
}

func formatTime(t time.Time, format string) string {
	if format != "" {
		return t.Format(dateTokens.Replace(format))
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}

func formatNumber(f float64, integer bool, format string) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	first := strings.IndexAny(format, "#0,.")
	if first < 0 {
		if integer {
			return strconv.FormatFloat(f, 'f', 0, 64)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	last := strings.LastIndexAny(format, "#0,.")
	prefix, pattern, suffix := format[:first], format[first:last+1], format[last+1:]

	if strings.Contains(suffix, "%") {
		f *= 100
	}
	decimals := 0
	if i := strings.IndexByte(pattern, '.'); i >= 0 {
		decimals = strings.Count(pattern[i+1:], "0") + strings.Count(pattern[i+1:], "#")
	}

	var digits string
	if strings.Contains(pattern, ",") {
		digits = printer.Sprintf("%.*f", decimals, f)
	} else {
		digits = strconv.FormatFloat(f, 'f', decimals, 64)
	}
	return prefix + digits + suffix
}
