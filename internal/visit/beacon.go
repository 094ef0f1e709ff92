// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package visit

import "github.com/spf13/cast"

// Beacon carries the client-side signals of one page load. Referrer and
// viewport width only exist in the browser, so the page posts them back.
type Beacon struct {
	Token     string `json:"token"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
	Platform  string `json:"platform"`
	Width     any    `json:"width"`
}

// ViewportWidth returns the width as an integer. Clients send it either as
// a number or a string; anything unparseable reads as 0.
func (b Beacon) ViewportWidth() int {
	w, err := cast.ToIntE(b.Width)
	if err != nil || w < 0 {
		return 0
	}
	return w
}
