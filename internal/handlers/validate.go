// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"

	"github.com/gookit/validate"

	"biolink/internal/models"
)

// commentInput is a guestbook submission.
type commentInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// toComment trims and validates the input. The returned message is empty
// when the comment is acceptable.
func (in commentInput) toComment() (*models.Comment, string) {
	c := &models.Comment{
		Name:    strings.TrimSpace(in.Name),
		Content: strings.TrimSpace(in.Content),
	}
	v := validate.Struct(c)
	if !v.Validate() {
		return nil, v.Errors.One()
	}
	return c, ""
}
