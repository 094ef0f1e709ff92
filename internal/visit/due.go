// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package visit records page visits into the analytics counters. A visit
// is counted at most once per page load and at most once per cooldown
// window per visitor.
package visit

import "time"

// DefaultCooldown is the minimum gap between two counted visits from the
// same visitor.
const DefaultCooldown = 24 * time.Hour

// IsDue reports whether a visit should be counted. It is due when there is
// no previous visit or when strictly more than cooldown has elapsed since
// it; exactly cooldown is not enough.
func IsDue(last *time.Time, now time.Time, cooldown time.Duration) bool {
	if last == nil {
		return true
	}
	return now.Sub(*last) > cooldown
}
