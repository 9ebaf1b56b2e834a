package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	redisadapter "github.com/target/sharednav/internal/adapters/redis"
	"github.com/target/sharednav/internal/data"
	"github.com/target/sharednav/internal/domain/model"
	"github.com/target/sharednav/internal/service"
)

type listPlantsOptions struct {
	JSON bool
}

func parseListPlantsFlags(args []string) (listPlantsOptions, error) {
	fs := flag.NewFlagSet("list-plants", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listPlantsOptions
	fs.BoolVar(&opts.JSON, "json", false, "Print plants as JSON")
	if err := fs.Parse(args); err != nil {
		return listPlantsOptions{}, err
	}
	return opts, nil
}

func runListPlants(cmdCtx *commandContext, args []string) error {
	opts, err := parseListPlantsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, conns *infra) error {
		plants, listErr := data.NewPlantRepo(conns.DB, cmdCtx.Config.Plant.Table).List(ctx)
		if listErr != nil {
			return fmt.Errorf("list plants: %w", listErr)
		}
		if opts.JSON {
			return printJSON(cmdCtx.Out, plants)
		}
		return printPlants(cmdCtx.Out, plants)
	})
}

func printPlants(w io.Writer, plants []model.Plant) error {
	if len(plants) == 0 {
		return writeln(w, "(no plants found)")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "CODE\tNAME\tLOCATION\tCOUNTRY\n"); err != nil {
		return err
	}
	for _, p := range plants {
		if err := writef(tw, "%s\t%s\t%s\t%s\n", p.PlantCode, p.Name, orDash(p.Location), orDash(p.Country)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\nTotal plants: %d\n", len(plants))
}

type clearPlantCacheOptions struct {
	SessionID string
}

func parseClearPlantCacheFlags(args []string) (clearPlantCacheOptions, error) {
	fs := flag.NewFlagSet("clear-plant-cache", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clearPlantCacheOptions
	fs.StringVar(&opts.SessionID, "session", "", "Session id whose plant cache should be dropped")
	if err := fs.Parse(args); err != nil {
		return clearPlantCacheOptions{}, err
	}
	opts.SessionID = strings.TrimSpace(opts.SessionID)
	if opts.SessionID == "" {
		return clearPlantCacheOptions{}, errors.New("--session is required")
	}
	return opts, nil
}

func runClearPlantCache(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearPlantCacheFlags(args)
	if err != nil {
		return err
	}

	return withInfra(cmdCtx, infraRequest{Timeout: defaultCommandTimeout, WantRedis: true},
		func(ctx context.Context, conns *infra) error {
			values := redisadapter.NewSessionValueStore(redisadapter.SessionValueStoreOptions{
				Client:  conns.Redis,
				Prefix:  cmdCtx.Config.Session.KeyPrefix,
				IdleTTL: cmdCtx.Config.Session.IdleTTL,
			})
			cache := service.NewPlantCache(service.PlantCacheOptions{Logger: cmdCtx.Logger})
			if clearErr := cache.Clear(ctx, values.ForSession(opts.SessionID)); clearErr != nil {
				return fmt.Errorf("clear plant cache: %w", clearErr)
			}
			cmdCtx.Logger.Info("plant cache cleared", "session_id", opts.SessionID)
			return nil
		})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
