// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package adminauth implements the passcode prompt that unlocks the admin
// dashboard.
//
// KNOWN WEAK POINT: the gate compares input against two literal passcodes
// compiled into the binary. It is not a security boundary and must not be
// treated as one; anyone with the binary or the source can unlock it. It
// is kept this way so the prompt behaves exactly as the site always has.
package adminauth

import "crypto/subtle"

// MaxAttempts is the number of wrong passcodes after which the prompt is
// force-closed.
const MaxAttempts = 4

// TerminatedMessage is shown when the prompt is force-closed.
const TerminatedMessage = "ACCESS DENIED. Too many failed attempts; the prompt has been closed."

// passcodes are the accepted literals. See the package comment.
var passcodes = [...]string{
	"neon-override",
	"0xB10L1NK",
}

// Outcome is the result of one Submit.
type Outcome int

const (
	// Granted means the passcode matched.
	Granted Outcome = iota
	// Retry means the passcode was wrong; the input is cleared.
	Retry
	// Terminated means the attempt limit was reached and the prompt closed.
	Terminated
	// Closed means the prompt is not open; reopen it first.
	Closed
)

func (o Outcome) String() string {
	switch o {
	case Granted:
		return "granted"
	case Retry:
		return "retry"
	case Terminated:
		return "terminated"
	default:
		return "closed"
	}
}

// Prompt is the state of one passcode prompt. The zero value is closed.
type Prompt struct {
	Open     bool `json:"open"`
	Attempts int  `json:"attempts"`
}

// Reopen opens the prompt and resets the attempt counter. There is no
// lasting lockout.
func (p *Prompt) Reopen() {
	p.Open = true
	p.Attempts = 0
}

// Submit checks code. A wrong code counts an attempt; the fourth wrong
// code closes the prompt. A correct code closes the prompt as well.
func (p *Prompt) Submit(code string) Outcome {
	if !p.Open {
		return Closed
	}
	if Check(code) {
		p.Open = false
		p.Attempts = 0
		return Granted
	}

	p.Attempts++
	if p.Attempts >= MaxAttempts {
		p.Open = false
		return Terminated
	}
	return Retry
}

// Remaining returns how many wrong attempts are left before termination.
func (p *Prompt) Remaining() int {
	return max(0, MaxAttempts-p.Attempts)
}

// Check reports whether code is one of the accepted passcodes.
func Check(code string) bool {
	ok := 0
	for _, pc := range passcodes {
		ok |= subtle.ConstantTimeCompare([]byte(code), []byte(pc))
	}
	return ok == 1
}
