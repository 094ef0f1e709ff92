// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a guestbook entry left by a visitor. Comments are append-only
// from the public side and deletable only from the admin dashboard.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" validate:"required|maxLen:80"`
	Content   string    `json:"content" validate:"required|maxLen:1000"`
	CreatedAt time.Time `json:"created_at"`
}
