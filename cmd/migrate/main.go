// Command migrate creates or drops the clicker schema.
//
//	migrate up     apply pending migrations
//	migrate drop   drop every table, data included (needs -force)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/juju/errors"

	"github.com/klau55/clicker-mobile-app/internal/config"
	"github.com/klau55/clicker-mobile-app/internal/database/migrations"
	"github.com/klau55/clicker-mobile-app/internal/logger"
)

func main() {
	timeout := flag.Duration("timeout", time.Minute, "overall time budget")
	force := flag.Bool("force", false, "confirm drop")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] up|drop\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := flag.Arg(0)
	if flag.NArg() != 1 || (cmd != "up" && cmd != "drop") {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cmd, *timeout, *force); err != nil {
		logger.Error("migrate %s: %v", cmd, err)
		os.Exit(1)
	}
	logger.Success("migrate %s done", cmd)
}

func run(cmd string, timeout time.Duration, force bool) error {
	if cmd == "drop" && !force {
		return errors.New("drop deletes all data; pass -force to confirm")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.SetDebug(cfg.LogDebug)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := migrations.Open(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd == "drop" {
		return migrations.Drop(ctx, db)
	}
	return migrations.Apply(ctx, db)
}
