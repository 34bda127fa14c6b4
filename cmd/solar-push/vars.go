package main

import (
	"flag"

	"github.com/evilsocket/islazy/log"
)

var (
	debug       = false
	migrate     = false
	showVersion = false
	confFile    = "config.yml"
)

func init() {
	flag.BoolVar(&debug, "debug", debug, "Enable debug logs.")
	flag.BoolVar(&migrate, "migrate", migrate, "Create or update the samples table before uploading.")
	flag.BoolVar(&showVersion, "version", showVersion, "Print the version and exit.")
	flag.StringVar(&log.Output, "log", log.Output, "Log file path or empty for standard output.")
	flag.StringVar(&confFile, "config", confFile, "Configuration file, compiled in defaults are used if it does not exist.")
}

func setup() error {
	if debug {
		log.Level = log.DEBUG
	} else {
		log.Level = log.INFO
	}
	log.OnFatal = log.ExitOnFatal
	return log.Open()
}

func cleanup() {
	log.Close()
}
