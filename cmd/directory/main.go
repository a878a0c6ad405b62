package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/jankclient/directory/internal/app"
	"github.com/jankclient/directory/internal/version"
)

func main() {
	var opts app.Options
	var showVersion bool

	flagSet := pflag.NewFlagSet("directory", pflag.ContinueOnError)
	flagSet.BoolVar(&opts.Once, "once", false, "run a single uptime pass over the directory and exit")
	flagSet.StringVar(&opts.InstanceFile, "instances", "", "instance directory file (overrides DIRECTORY_INSTANCE_FILE)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if showVersion {
		fmt.Println(version.String())
		return
	}

	a, err := app.New(opts)
	if err != nil {
		log.Fatalf("❌ directory failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ directory failed: %v", err)
	}
}
