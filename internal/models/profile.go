// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to the row-store
// tables and the core types shared across the application.
package models

// Profile config keys stored in the profile_config table.
const (
	ConfigName     = "name"
	ConfigTitle    = "title"
	ConfigBio      = "bio"
	ConfigAvatar   = "avatar"
	ConfigStatus   = "status"
	ConfigActivity = "activity"
	ConfigSocials  = "socials"
	ConfigTheme    = "theme"
)

// Socials maps a platform name to a profile URL. Keys are unique.
type Socials map[string]string

// Profile is the public identity rendered by every theme. It is assembled
// from the flat profile_config table plus the links table.
type Profile struct {
	Name     string  `json:"name"`
	Title    string  `json:"title"`
	Bio      string  `json:"bio"`
	BioHTML  string  `json:"bio_html,omitempty"`
	Avatar   string  `json:"avatar"`
	Status   string  `json:"status"`
	Activity string  `json:"activity"`
	Links    []Link  `json:"links"`
	Socials  Socials `json:"socials,omitempty"`

	// Theme is the theme tag persisted in profile_config, empty when unset.
	Theme string `json:"theme,omitempty"`
}
