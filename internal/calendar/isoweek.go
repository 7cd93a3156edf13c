// Package calendar implements the ISO-8601 week arithmetic the run-rate
// engine depends on: week-of-date, Monday-of-week, and trailing-window
// generation that stays correct across year boundaries.
package calendar

import (
	"fmt"
	"math"
	"time"
)

// YearWeek identifies one ISO-8601 week.
type YearWeek struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

func (yw YearWeek) String() string {
	return fmt.Sprintf("%d-W%02d", yw.Year, yw.Week)
}

// ISOWeek returns the ISO-8601 week containing t. Week 1 is the week
// holding the year's first Thursday, so the week's year can differ from
// t's calendar year at both year boundaries.
func ISOWeek(t time.Time) YearWeek {
	y, w := t.ISOWeek()
	return YearWeek{Year: y, Week: w}
}

// MondayOfISOWeek returns the Monday that starts the given ISO week.
// January 4 is always inside week 1, which anchors the calculation.
func MondayOfISOWeek(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.Local)
	dow := int(jan4.Weekday())
	if dow == 0 {
		dow = 7 // Sunday
	}
	monday := jan4.AddDate(0, 0, -(dow - 1))
	return monday.AddDate(0, 0, (week-1)*7)
}

// TrailingWeeks lists the n most recent ISO weeks ending at (year, week),
// newest first. It walks backward seven days at a time from the week's
// Monday and re-derives the ISO week at each step, so 52/53-week years
// come out right where naive week-number subtraction would not.
func TrailingWeeks(year, week, n int) []YearWeek {
	weeks := make([]YearWeek, 0, n)
	monday := MondayOfISOWeek(year, week)
	for i := 0; i < n; i++ {
		weeks = append(weeks, ISOWeek(monday))
		monday = monday.AddDate(0, 0, -7)
	}
	return weeks
}

// MonthFromWeek approximates the calendar month of a week number as
// ceil(week/4.35), clamped to [1,12]. Deliberately inexact near month
// boundaries; stored history was built with the same rule.
func MonthFromWeek(week int) int {
	if week <= 0 {
		return 0
	}
	m := int(math.Ceil(float64(week) / 4.35))
	if m < 1 {
		m = 1
	}
	if m > 12 {
		m = 12
	}
	return m
}

// DateKey formats t as YYYY-MM-DD using local calendar fields. UTC
// conversion here would shift dates by a day for timezones east of UTC.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), t.Month(), t.Day())
}
