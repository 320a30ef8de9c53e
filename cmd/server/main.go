package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/alex-user-go/tripplanner/internal/app"
	"github.com/alex-user-go/tripplanner/internal/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "server",
		Usage: "Serve trip plans over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				EnvVars: []string{"TRIP_CONFIG"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			return app.Run(cfg)
		},
	}
}
