package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/app"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("taskboard", pflag.ExitOnError)
	migrateOnly := flags.Bool("migrate-only", false, "apply database migrations and exit")
	showVersion := flags.Bool("version", false, "print the build version and exit")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: taskboard [flags]\n\nConfiguration is read from the environment (see internal/taskboard/app/config.go).\n\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(app.BuildVersion)
		return
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if *migrateOnly {
		if err := app.Migrate(cfg); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
