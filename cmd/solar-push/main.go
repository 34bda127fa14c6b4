package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/evilsocket/islazy/fs"
	"github.com/evilsocket/islazy/log"

	"github.com/Roysten/solar-push/core"
)

const version = "1.1.0"

func loadConfig() (*core.Config, error) {
	if fs.Exists(confFile) {
		log.Debug("loading configuration from %s", confFile)
		return core.Load(confFile)
	}

	log.Debug("%s not found, using compiled in defaults", confFile)
	conf := core.Defaults()
	if err := conf.Compile("."); err != nil {
		return nil, err
	}
	return conf, nil
}

func openStore(location string) (*core.Store, error) {
	if !migrate {
		return core.OpenStore(location)
	}

	store, err := core.OpenStoreForMigration(location)
	if err != nil {
		return nil, err
	}
	if err = store.Migrate(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func run(ctx context.Context, location string) error {
	conf, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	uploader, err := core.NewUploader(conf.Remote.Endpoint, conf.Remote.Timeout())
	if err != nil {
		return err
	}

	store, err := openStore(location)
	if err != nil {
		return err
	}
	defer store.Close()

	metrics := core.NewMetrics()
	syncErr := core.NewSynchronizer(conf, store, uploader, metrics).Run(ctx)

	if conf.Metrics != "" {
		if err := metrics.WriteTextfile(conf.Metrics); err != nil {
			log.Error("error writing metrics to %s: %v", conf.Metrics, err)
		}
	}

	return syncErr
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] <store>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("solar-push v%s\n", version)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := setup(); err != nil {
		fmt.Fprintf(os.Stderr, "error opening log %s: %v\n", log.Output, err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug("solar-push v%s uploading from %s ...", version, flag.Arg(0))

	if err := run(ctx, flag.Arg(0)); err != nil {
		log.Fatal("%v", err)
	}
}
