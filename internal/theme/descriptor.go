// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import "strings"

// Family groups themes that share a layout and reaction set.
type Family string

const (
	FamilySeasonal  Family = "seasonal"
	FamilyCinematic Family = "cinematic"
	FamilySciFi     Family = "scifi"
	FamilyHorror    Family = "horror"
	FamilyMisc      Family = "misc"
)

// Descriptor is what the public page template needs to render a theme.
type Descriptor struct {
	Theme     Theme
	Label     string
	Family    Family
	Accent    string   // CSS color used for highlights
	Layout    string   // template block rendering the link list
	Reactions []string // fixed emoji set offered to visitors
}

var familyReactions = map[Family][]string{
	FamilySeasonal:  {"❤️", "🎉", "✨", "🔥"},
	FamilyCinematic: {"🎬", "🍿", "⭐", "👏"},
	FamilySciFi:     {"🚀", "👾", "⚡", "🛸"},
	FamilyHorror:    {"💀", "👻", "🕷️", "🩸"},
	FamilyMisc:      {"👍", "❤️", "😂", "🔥"},
}

var familyLayouts = map[Family]string{
	FamilySeasonal:  "cards",
	FamilyCinematic: "credits",
	FamilySciFi:     "console",
	FamilyHorror:    "tombstones",
	FamilyMisc:      "list",
}

var descriptors = map[Theme]Descriptor{}

func register(t Theme, f Family, accent string) {
	descriptors[t] = Descriptor{
		Theme:     t,
		Label:     label(t),
		Family:    f,
		Accent:    accent,
		Layout:    familyLayouts[f],
		Reactions: familyReactions[f],
	}
}

func init() {
	register(Christmas, FamilySeasonal, "#c0392b")
	register(NewYear, FamilySeasonal, "#f1c40f")
	register(Valentine, FamilySeasonal, "#e84393")
	register(Halloween, FamilyHorror, "#e67e22")
	register(Festival, FamilySeasonal, "#16a085")
	register(Autumn, FamilySeasonal, "#d35400")
	register(Spring, FamilySeasonal, "#27ae60")
	register(Summer, FamilySeasonal, "#f39c12")
	register(Winter, FamilySeasonal, "#74b9ff")
	register(Easter, FamilySeasonal, "#a29bfe")

	register(Noir, FamilyCinematic, "#bdc3c7")
	register(Western, FamilyCinematic, "#b9770e")
	register(Heist, FamilyCinematic, "#2c3e50")
	register(Kaiju, FamilyCinematic, "#1abc9c")
	register(Anime, FamilyCinematic, "#fd79a8")
	register(Silent, FamilyCinematic, "#7f8c8d")
	register(Spaghetti, FamilyCinematic, "#a04000")
	register(Blockbust, FamilyCinematic, "#e74c3c")

	register(Neon, FamilySciFi, "#00f5d4")
	register(Cyberpunk, FamilySciFi, "#f72585")
	register(Matrix, FamilySciFi, "#00ff41")
	register(Starship, FamilySciFi, "#4361ee")
	register(Hologram, FamilySciFi, "#90e0ef")
	register(Terminal, FamilySciFi, "#33ff33")
	register(Synthwave, FamilySciFi, "#ff6ec7")
	register(Mars, FamilySciFi, "#c1440e")
	register(Wormhole, FamilySciFi, "#7209b7")
	register(Mainframe, FamilySciFi, "#ffb000")

	register(Haunted, FamilyHorror, "#6c5ce7")
	register(Zombie, FamilyHorror, "#6ab04c")
	register(Cryptid, FamilyHorror, "#535c68")
	register(Eldritch, FamilyHorror, "#130f40")
	register(Asylum, FamilyHorror, "#dfe6e9")

	register(Minimal, FamilyMisc, "#2d3436")
	register(Paper, FamilyMisc, "#636e72")
	register(Arcade, FamilyMisc, "#fdcb6e")
	register(Ocean, FamilyMisc, "#0984e3")
	register(Forest, FamilyMisc, "#00b894")
	register(Maze, FamilyMisc, "#e17055")
	register(Dodge, FamilyMisc, "#d63031")
}

// Describe returns the descriptor for t, falling back to the default
// theme's descriptor for unknown tags.
func Describe(t Theme) Descriptor {
	if d, ok := descriptors[t]; ok {
		return d
	}
	return descriptors[Fallback]
}

// AllowsReaction reports whether emoji is part of the theme's reaction set.
func AllowsReaction(t Theme, emoji string) bool {
	for _, r := range Describe(t).Reactions {
		if r == emoji {
			return true
		}
	}
	return false
}

// label turns "NEW_YEAR" into "New Year".
func label(t Theme) string {
	words := strings.Split(strings.ToLower(string(t)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// KnownReaction reports whether emoji belongs to any theme's reaction set.
func KnownReaction(emoji string) bool {
	for _, set := range familyReactions {
		for _, r := range set {
			if r == emoji {
				return true
			}
		}
	}
	return false
}
