// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package visit

import (
	"net/url"
	"strings"
)

// DirectReferrer is recorded when the visit has no usable referrer.
const DirectReferrer = "Direct/Unknown"

// Platform, resolution and browser buckets.
const (
	PlatformWindowsPhone = "Windows Phone"
	PlatformAndroid      = "Android"
	PlatformIOS          = "iOS"
	PlatformWindows      = "Windows"
	PlatformMacOS        = "MacOS"
	PlatformLinux        = "Linux"
	PlatformUnknown      = "Unknown"

	ResolutionMobile  = "Mobile"
	ResolutionTablet  = "Tablet"
	ResolutionDesktop = "Desktop"

	BrowserChrome  = "Chrome"
	BrowserSafari  = "Safari"
	BrowserFirefox = "Firefox"
	BrowserEdge    = "Edge"
	BrowserOther   = "Other"
)

// platformRules are checked in order; the first match wins. Signatures
// overlap (Windows Phone agents mention Android, Android agents mention
// Linux, iOS agents say "like Mac OS X") so the order matters. A bare "win"
// would also match "Darwin".
var platformRules = []struct {
	name     string
	patterns []string
}{
	{PlatformWindowsPhone, []string{"windows phone"}},
	{PlatformAndroid, []string{"android"}},
	{PlatformIOS, []string{"iphone", "ipad", "ipod"}},
	{PlatformWindows, []string{"windows", "win32", "win64"}},
	{PlatformMacOS, []string{"mac"}},
	{PlatformLinux, []string{"linux"}},
}

// ClassifyReferrer returns the referrer's hostname, or DirectReferrer when
// it is empty or unparseable.
func ClassifyReferrer(referrer string) string {
	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		return DirectReferrer
	}
	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return DirectReferrer
	}
	return strings.ToLower(u.Hostname())
}

// ClassifyPlatform maps the user agent and the client's platform hint to a
// platform bucket.
func ClassifyPlatform(userAgent, platformHint string) string {
	signals := strings.ToLower(userAgent + " " + platformHint)
	for _, rule := range platformRules {
		for _, p := range rule.patterns {
			if strings.Contains(signals, p) {
				return rule.name
			}
		}
	}
	return PlatformUnknown
}

// ClassifyResolution buckets a viewport width in CSS pixels.
func ClassifyResolution(width int) string {
	switch {
	case width < 768:
		return ResolutionMobile
	case width < 1024:
		return ResolutionTablet
	default:
		return ResolutionDesktop
	}
}

// ClassifyBrowser maps a user agent to a browser bucket. Edge agents also
// carry "Chrome" and Chrome agents also carry "Safari", so each check
// excludes the more specific one.
func ClassifyBrowser(userAgent string) string {
	hasEdge := strings.Contains(userAgent, "Edg")
	hasChrome := strings.Contains(userAgent, "Chrome")

	switch {
	case hasChrome && !hasEdge:
		return BrowserChrome
	case strings.Contains(userAgent, "Safari") && !hasChrome:
		return BrowserSafari
	case strings.Contains(userAgent, "Firefox"):
		return BrowserFirefox
	case hasEdge:
		return BrowserEdge
	default:
		return BrowserOther
	}
}
