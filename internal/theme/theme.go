// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme holds the closed set of presentation themes and resolves
// which one a visitor starts with.
package theme

import "strings"

// Theme is a tag from the fixed set of cosmetic themes.
type Theme string

const (
	// Seasonal
	Christmas Theme = "CHRISTMAS"
	NewYear   Theme = "NEW_YEAR"
	Valentine Theme = "VALENTINE"
	Halloween Theme = "HALLOWEEN"
	Festival  Theme = "FESTIVAL"
	Autumn    Theme = "AUTUMN"
	Spring    Theme = "SPRING"
	Summer    Theme = "SUMMER"
	Winter    Theme = "WINTER"
	Easter    Theme = "EASTER"

	// Cinematic
	Noir      Theme = "NOIR"
	Western   Theme = "WESTERN"
	Heist     Theme = "HEIST"
	Kaiju     Theme = "KAIJU"
	Anime     Theme = "ANIME"
	Silent    Theme = "SILENT_FILM"
	Spaghetti Theme = "SPAGHETTI"
	Blockbust Theme = "BLOCKBUSTER"

	// Sci-fi
	Neon      Theme = "NEON"
	Cyberpunk Theme = "CYBERPUNK"
	Matrix    Theme = "MATRIX"
	Starship  Theme = "STARSHIP"
	Hologram  Theme = "HOLOGRAM"
	Terminal  Theme = "TERMINAL"
	Synthwave Theme = "SYNTHWAVE"
	Mars      Theme = "MARS"
	Wormhole  Theme = "WORMHOLE"
	Mainframe Theme = "MAINFRAME"

	// Horror
	Haunted  Theme = "HAUNTED"
	Zombie   Theme = "ZOMBIE"
	Cryptid  Theme = "CRYPTID"
	Eldritch Theme = "ELDRITCH"
	Asylum   Theme = "ASYLUM"

	// Misc
	Minimal Theme = "MINIMAL"
	Paper   Theme = "PAPER"
	Arcade  Theme = "ARCADE"
	Ocean   Theme = "OCEAN"
	Forest  Theme = "FOREST"
	Maze    Theme = "MAZE"
	Dodge   Theme = "DODGE"
)

// Fallback is the theme used when no calendar range matches.
const Fallback = Neon

// all lists every theme in display order.
var all = []Theme{
	Christmas, NewYear, Valentine, Halloween, Festival, Autumn, Spring, Summer, Winter, Easter,
	Noir, Western, Heist, Kaiju, Anime, Silent, Spaghetti, Blockbust,
	Neon, Cyberpunk, Matrix, Starship, Hologram, Terminal, Synthwave, Mars, Wormhole, Mainframe,
	Haunted, Zombie, Cryptid, Eldritch, Asylum,
	Minimal, Paper, Arcade, Ocean, Forest, Maze, Dodge,
}

var known = func() map[Theme]bool {
	m := make(map[Theme]bool, len(all))
	for _, t := range all {
		m[t] = true
	}
	return m
}()

// All returns a copy of the full theme list.
func All() []Theme {
	out := make([]Theme, len(all))
	copy(out, all)
	return out
}

// Valid reports whether t is a recognized tag.
func (t Theme) Valid() bool {
	return known[t]
}

// String returns the tag.
func (t Theme) String() string {
	return string(t)
}

// Parse converts a stored string into a Theme. Surrounding whitespace is
// ignored; matching is case-sensitive because tags are persisted verbatim.
func Parse(s string) (Theme, bool) {
	t := Theme(strings.TrimSpace(s))
	if !t.Valid() {
		return "", false
	}
	return t, true
}
