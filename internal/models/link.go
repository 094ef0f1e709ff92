// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// LinkStatus is the display state of a link.
type LinkStatus string

const (
	LinkStatusActive    LinkStatus = "active"
	LinkStatusEncrypted LinkStatus = "encrypted"
	LinkStatusOffline   LinkStatus = "offline"
)

// Valid reports whether s is one of the known link states.
func (s LinkStatus) Valid() bool {
	switch s {
	case LinkStatusActive, LinkStatusEncrypted, LinkStatusOffline:
		return true
	}
	return false
}

// Link is a single entry on the profile page. ID is assigned by the row
// store on creation; zero means the link has not been persisted yet.
type Link struct {
	ID         int64      `json:"id,omitempty"`
	Title      string     `json:"title" validate:"required|maxLen:200"`
	URL        string     `json:"url" validate:"required|fullUrl|maxLen:2000"`
	Status     LinkStatus `json:"status" validate:"required"`
	Category   string     `json:"category" validate:"maxLen:100"`
	VisitCount int64      `json:"visit_count"`
	Position   int        `json:"position"`
}

// IsPersisted returns true once the row store has assigned an ID.
func (l *Link) IsPersisted() bool {
	return l.ID > 0
}

// Clickable reports whether visitors may follow the link.
func (l *Link) Clickable() bool {
	return l.Status == LinkStatusActive
}
