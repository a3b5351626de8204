package utils

import (
	"math"
	"strings"
	"time"
)

type DateFormat string

// Layouts use single-digit verbs where Go allows it so "3/7/2024" and
// "03/07/2024" both parse with the same entry.
const (
	FormatRFC3339      DateFormat = time.RFC3339
	FormatISODateTime  DateFormat = "2006-01-02 15:04:05"
	FormatISODate      DateFormat = "2006-01-02"
	FormatLooseISODate DateFormat = "2006-1-2"
	FormatSlashISODate DateFormat = "2006/1/2"
	FormatUSDate       DateFormat = "1/2/2006"
	FormatDayFirstDate DateFormat = "2/1/2006"
	FormatDashDate     DateFormat = "2-1-2006"
	FormatDotDate      DateFormat = "2.1.2006"
	FormatDayMonthName DateFormat = "2 Jan 2006"
	FormatDashMonth    DateFormat = "2-Jan-2006"
	FormatShortMonth   DateFormat = "Jan 2, 2006"
	FormatLongMonth    DateFormat = "January 2, 2006"
)

// TestedDateFormat is how tested dates are written on new outcomes; stored
// outcomes from earlier releases use it too.
const TestedDateFormat = FormatUSDate

// DateValidator parses the free-form dates found in return sheets and tester
// submissions. Month-first wins when a slash date is ambiguous.
type DateValidator struct {
	supportedFormats []DateFormat
}

type ValidationResult struct {
	IsValid       bool
	ParsedTime    time.Time
	OriginalValue string
}

func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatRFC3339,
			FormatISODateTime,
			FormatISODate,
			FormatLooseISODate,
			FormatSlashISODate,
			FormatUSDate,
			FormatDayFirstDate,
			FormatDashDate,
			FormatDotDate,
			FormatDayMonthName,
			FormatDashMonth,
			FormatShortMonth,
			FormatLongMonth,
		},
	}
}

func (dv *DateValidator) ValidateAndConvert(input string) ValidationResult {
	result := ValidationResult{OriginalValue: input}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	for _, format := range dv.supportedFormats {
		parsedTime, err := time.Parse(string(format), input)
		if err != nil {
			continue
		}
		result.IsValid = true
		result.ParsedTime = parsedTime
		return result
	}

	return result
}

// Parse returns the parsed time and whether input was recognised.
func (dv *DateValidator) Parse(input string) (time.Time, bool) {
	result := dv.ValidateAndConvert(input)
	return result.ParsedTime, result.IsValid
}

// DaysBetween is the absolute distance between a and b in whole days,
// rounding any partial day up.
func DaysBetween(a, b time.Time) int {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// RoundHalfUp rounds to the nearest integer with .5 going up.
func RoundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}

func FormatTestedDate(t time.Time) string {
	return t.Format(string(TestedDateFormat))
}
