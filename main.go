package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/exp/slog"
)

const USAGE = `usage: go-transit [flags] <mode>

modes:
  make_base         read base requests from stdin and store the snapshot
  process_requests  answer stat requests from stdin against the snapshot
  import            build the snapshot from the configured source (-format)
  serve             answer requests over http

flags:
`

func main() {
	config_file := flag.String("config", "./config.yaml", "path to the config file")
	format := flag.String("format", "text", "import format (text, csv, osm, gtfs)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), USAGE)
		flag.PrintDefaults()
	}
	flag.Parse()

	InitLogging(os.Stderr, "info")
	config, err := ReadConfig(*config_file)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	if err := InitLogging(os.Stderr, config.Log.Level); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	switch mode := flag.Arg(0); mode {
	case "make_base":
		err = MakeBase(config, os.Stdin)
	case "process_requests":
		err = ProcessRequests(config, os.Stdin, os.Stdout)
	case "import":
		err = ImportSource(config, *format)
	case "serve":
		err = Serve(config)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
