package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var server srv

func main() {
	app := &cli.App{
		Name:  "missions",
		Usage: "mission verification and daily reward backend",
		Commands: []*cli.Command{
			{
				Name:   "api",
				Usage:  "run the api server",
				Action: server.startApi,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: server.startMigrate,
			},
			{
				Name:  "seed",
				Usage: "seed feature flags, mission rules and daily missions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "path to the seed file",
						Value: "seed.toml",
					},
				},
				Action: server.startSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
