// Command planner prints a budget trip plan from the command line.
//
// Usage:
//
//	planner plan --origin "New York JFK" --destination "Paris CDG" \
//	    --depart "March 20th" --return "March 27th" --budget '$3000'
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/alex-user-go/tripplanner/internal/app"
	"github.com/alex-user-go/tripplanner/internal/config"
	"github.com/alex-user-go/tripplanner/internal/obs"
	"github.com/alex-user-go/tripplanner/internal/planner"
	"github.com/alex-user-go/tripplanner/internal/report"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "planner",
		Usage:     "Plan a budget trip: flights, hotel, attractions and a cost breakdown",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"TRIP_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
			},
		},
		Commands: []*cli.Command{
			planCommand(),
		},
	}
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Price a round trip and lay out a day-by-day itinerary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "origin",
				Aliases:  []string{"o"},
				Usage:    "Departure city or airport",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "destination",
				Aliases:  []string{"d"},
				Usage:    "Destination city or airport",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "depart",
				Usage: "Departure date",
			},
			&cli.StringFlag{
				Name:  "return",
				Usage: "Return date",
			},
			&cli.StringFlag{
				Name:    "budget",
				Aliases: []string{"b"},
				Usage:   "Total budget, e.g. $3000",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, json)",
			},
		},
		Action: runPlan,
	}
}

func runPlan(c *cli.Context) error {
	format := c.String("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	logger := app.NewLogger(os.Stderr, c.String("log-level"), false)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, closeEngine, err := app.NewEngine(ctx, cfg, obs.NewMetrics(logger), logger)
	if err != nil {
		return err
	}
	defer closeEngine()

	plan, err := engine.PlanTrip(ctx, planner.Request{
		Origin:        c.String("origin"),
		Destination:   c.String("destination"),
		DepartureDate: c.String("depart"),
		ReturnDate:    c.String("return"),
		Budget:        c.String("budget"),
	})
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	_, err = fmt.Fprintln(c.App.Writer, report.Render(plan))
	return err
}
