// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides row-store access for every biolink table. Each
// store struct wraps a *sql.DB and exposes typed query methods; SQL is
// kept portable between PostgreSQL and SQLite.
package store

import "database/sql"

// Gateway aggregates the typed stores over one database handle. It is the
// single entry point the rest of the application uses to reach the row
// store.
type Gateway struct {
	Config    *ProfileConfigStore
	Links     *LinkStore
	Analytics *CounterStore
	Reactions *CounterStore
	Comments  *CommentStore
}

// NewGateway wires all stores to the given database.
func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{
		Config:    NewProfileConfigStore(db),
		Links:     NewLinkStore(db),
		Analytics: NewAnalyticsStore(db),
		Reactions: NewReactionStore(db),
		Comments:  NewCommentStore(db),
	}
}
