// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"biolink/internal/adminauth"
	"biolink/internal/analytics"
	"biolink/internal/cache"
	"biolink/internal/store"
)

// errDenied is returned when the passcode is wrong.
var errDenied = errors.New("access denied")

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

func newResetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Zero visit analytics, reactions and link counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.destructive(cmd, "Analytics reset.", (*analytics.Resetter).ResetAll)
		},
	}
}

func newPurgeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete visit analytics, keeping reactions and link counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.destructive(cmd, "Analytics purged.", (*analytics.Resetter).Purge)
		},
	}
}

// destructive asks for an admin passcode and runs op on success.
func (a *app) destructive(cmd *cobra.Command, done string, op func(*analytics.Resetter, context.Context) error) error {
	code, err := readPasscode(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("read passcode: %w", err)
	}
	if !adminauth.Check(code) {
		return errDenied
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// The server may be serving a cached profile that embeds link counters.
	var profileCache analytics.Invalidator
	if a.cfg.ValkeyEnabled() {
		client, err := cache.ConnectValkey(a.cfg.ValkeyHost, a.cfg.ValkeyPort, a.cfg.ValkeyPassword, a.cfg.ValkeyDB)
		if err != nil {
			slog.Warn("valkey unavailable, cached profile not invalidated", "error", err)
		} else {
			defer client.Close()
			profileCache = cache.NewProfileCache(client, cache.DefaultProfileTTL)
		}
	}

	gw := store.NewGateway(db)
	if err := op(analytics.NewResetter(gw.Analytics, gw.Reactions, gw.Links, profileCache), cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), done)
	return nil
}

// readPasscode reads without echo from a terminal, or one line from any
// other reader.
func readPasscode(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "Passcode: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := readPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
