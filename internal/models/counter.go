// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// Fixed and prefixed analytics counter keys.
const (
	KeyTotalVisits = "total_visits"

	PrefixReferrer   = "referrer:"
	PrefixPlatform   = "platform:"
	PrefixResolution = "resolution:"
	PrefixBrowser    = "browser:"
)

// Counter is one row of the analytics or reactions table: a unique key
// mapped to a non-negative count.
type Counter struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// CounterKey builds a prefixed composite key such as "platform:iOS".
func CounterKey(prefix, value string) string {
	return prefix + value
}

// HasPrefix reports whether the counter key belongs to the given bucket.
func (c Counter) HasPrefix(prefix string) bool {
	return strings.HasPrefix(c.Key, prefix)
}

// Name returns the key with the given prefix stripped.
func (c Counter) Name(prefix string) string {
	return strings.TrimPrefix(c.Key, prefix)
}
