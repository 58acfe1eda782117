// Command taskboard-seed loads a YAML fixture into a running taskboard
// instance through its HTTP API.
//
//	taskboard-seed --url http://localhost:8080 --file demo.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/slogx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("taskboard-seed", pflag.ContinueOnError)
	baseURL := flags.String("url", "http://localhost:8080", "taskboard base URL")
	file := flags.StringP("file", "f", "", "fixture file (YAML)")
	timeout := flags.Duration("timeout", 2*time.Minute, "overall deadline for the seed run")
	verbose := flags.BoolP("verbose", "v", false, "log every created member")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("--file is required")
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger := slogx.New(slogx.Config{
		Service: "taskboard-seed",
		Env:     "dev",
		Level:   level,
		Format:  "text",
		Output:  os.Stderr,
	})

	fx, err := LoadFixture(*file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	seeder := &Seeder{Client: tasksdk.NewSDKClient(*baseURL), Logger: logger}
	res, err := seeder.Run(ctx, fx)
	if err != nil {
		return err
	}

	fmt.Printf("organization %s (invite code %s)\n", res.OrganizationID, res.InviteCode)
	fmt.Printf("users %d, projects %d, tasks %d, meetings %d, tracked %d min\n",
		res.Users, res.Projects, res.Tasks, res.Meetings, res.TrackedMinutes)
	return nil
}
