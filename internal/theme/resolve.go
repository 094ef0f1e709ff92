// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import "time"

// dayRange is an inclusive (month, day) window that may wrap the year end.
type dayRange struct {
	fromMonth time.Month
	fromDay   int
	toMonth   time.Month
	toDay     int
}

func (r dayRange) contains(m time.Month, d int) bool {
	from := int(r.fromMonth)*100 + r.fromDay
	to := int(r.toMonth)*100 + r.toDay
	cur := int(m)*100 + d
	if from <= to {
		return cur >= from && cur <= to
	}
	// Wraps Dec -> Jan.
	return cur >= from || cur <= to
}

type calendarRule struct {
	span  dayRange
	theme Theme
}

// calendar is checked top to bottom; the first match wins.
var calendar = []calendarRule{
	{dayRange{time.December, 1, time.December, 26}, Christmas},
	{dayRange{time.December, 27, time.January, 5}, NewYear},
	{dayRange{time.February, 7, time.February, 15}, Valentine},
	{dayRange{time.October, 15, time.October, 31}, Halloween},
	{dayRange{time.June, 15, time.June, 30}, Festival},
	{dayRange{time.September, 1, time.November, 30}, Autumn},
}

// Resolve picks the initial theme. A recognized stored tag is returned
// unchanged; otherwise the calendar default for now is used. Callers are
// responsible for persisting the result.
func Resolve(stored string, now time.Time) Theme {
	if t, ok := Parse(stored); ok {
		return t
	}
	return CalendarDefault(now)
}

// CalendarDefault maps a date onto the seasonal theme for that day.
func CalendarDefault(now time.Time) Theme {
	m, d := now.Month(), now.Day()
	for _, rule := range calendar {
		if rule.span.contains(m, d) {
			return rule.theme
		}
	}
	return Fallback
}
