package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/target/sharednav/internal/data"
	"github.com/target/sharednav/internal/domain/model"
	"github.com/target/sharednav/internal/service"
)

type showUserOptions struct {
	ObjectID string
	JSON     bool
}

func parseShowUserFlags(args []string) (showUserOptions, error) {
	fs := flag.NewFlagSet("show-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts showUserOptions
	fs.BoolVar(&opts.JSON, "json", false, "Print the profile as JSON")
	if err := fs.Parse(args); err != nil {
		return showUserOptions{}, err
	}
	if fs.NArg() != 1 {
		return showUserOptions{}, errors.New("usage: show-user [--json] <object-id>")
	}
	opts.ObjectID = strings.TrimSpace(fs.Arg(0))
	if opts.ObjectID == "" {
		return showUserOptions{}, errors.New("object id must not be blank")
	}
	return opts, nil
}

func runShowUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseShowUserFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, conns *infra) error {
		svc := newRegistrationService(cmdCtx, conns)
		profile, getErr := svc.GetProfile(ctx, opts.ObjectID)
		if getErr != nil {
			return getErr
		}
		if opts.JSON {
			return printJSON(cmdCtx.Out, profile)
		}
		return printProfile(cmdCtx.Out, profile)
	})
}

type registerOptions struct {
	ObjectID    string
	Email       string
	DisplayName string
	JSON        bool
}

func parseRegisterFlags(args []string) (registerOptions, error) {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts registerOptions
	fs.StringVar(&opts.ObjectID, "object-id", "", "External object id (required)")
	fs.StringVar(&opts.Email, "email", "", "Email address; drives plant derivation")
	fs.StringVar(&opts.DisplayName, "display-name", "", "Display name; drives department derivation")
	fs.BoolVar(&opts.JSON, "json", false, "Print the registration result as JSON")
	if err := fs.Parse(args); err != nil {
		return registerOptions{}, err
	}
	opts.ObjectID = strings.TrimSpace(opts.ObjectID)
	if opts.ObjectID == "" {
		return registerOptions{}, errors.New("--object-id is required")
	}
	return opts, nil
}

func runRegister(cmdCtx *commandContext, args []string) error {
	opts, err := parseRegisterFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, conns *infra) error {
		svc := newRegistrationService(cmdCtx, conns)
		res := svc.CheckAndRegister(ctx, opts.ObjectID, opts.Email, opts.DisplayName)
		if res.Error != "" {
			return errors.New(res.Error)
		}
		if opts.JSON {
			return printJSON(cmdCtx.Out, res)
		}
		status := "updated"
		if res.WasCreated {
			status = "created"
		}
		if writeErr := writef(cmdCtx.Out, "Profile %s\n\n", status); writeErr != nil {
			return writeErr
		}
		return printProfile(cmdCtx.Out, res.Profile)
	})
}

func newRegistrationService(cmdCtx *commandContext, conns *infra) *service.UserRegistrationService {
	return service.NewUserRegistrationService(service.UserRegistrationServiceOptions{
		Repo:   data.NewUserRepo(conns.DB, data.UserRepoOptions{Table: cmdCtx.Config.Registration.Table}),
		Logger: cmdCtx.Logger,
	})
}

func printProfile(w io.Writer, p *model.UserProfile) error {
	if p == nil {
		return writeln(w, "(no profile)")
	}
	rows := []struct{ label, value string }{
		{"ID", p.ID.String()},
		{"Object ID", p.ObjectID},
		{"Email", orDash(p.Email)},
		{"Display name", orDash(p.DisplayName)},
		{"Department", orDash(p.Department)},
		{"Plant", orDash(p.Plant)},
		{"Active", fmt.Sprintf("%t", p.IsActive)},
		{"Created", formatTime(&p.CreatedAt)},
		{"Updated", formatTime(p.UpdatedAt)},
		{"Last sign-in", formatTime(p.LastSignInAt)},
	}
	for _, r := range rows {
		if err := writef(w, "%-14s %s\n", r.label+":", r.value); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
