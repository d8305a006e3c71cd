package main

import (
	"context"
	"fmt"
	"github.com/icinga/icingadb/pkg/logging"
	"github.com/icinga/icingadb/pkg/utils"
	"github.com/rentals/rooms/internal"
	"github.com/rentals/rooms/internal/daemon"
	"github.com/rentals/rooms/internal/listener"
	"github.com/rentals/rooms/internal/room"
	"go.uber.org/zap"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	conf := daemon.ParseFlagsAndConfig()

	logs, err := logging.NewLogging(
		"rooms",
		conf.Logging.Level,
		conf.Logging.Output,
		conf.Logging.Options,
		conf.Logging.Interval,
	)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "cannot initialize logging:", err)
		os.Exit(daemon.ExitFailure)
	}

	logger := logs.GetLogger()
	logger.Infof("Starting Rooms daemon (%s)", internal.Version.Version)

	var rooms room.Finder
	if conf.RoomsFile != "" {
		logger.Infof("Serving rooms from %q", conf.RoomsFile)

		memory, err := room.LoadMemory(conf.RoomsFile)
		if err != nil {
			logger.Fatalw("cannot load rooms file", zap.Error(err))
		}
		rooms = memory
	} else {
		db, err := conf.Database.Open(logs.GetChildLogger("database"))
		if err != nil {
			logger.Fatalw("cannot create database connection from config", zap.Error(err))
		}
		defer func() { _ = db.Close() }()

		logger.Infof("Connecting to database at '%s'", utils.JoinHostPort(conf.Database.Host, conf.Database.Port))
		if err := db.Ping(); err != nil {
			logger.Fatalw("cannot connect to database", zap.Error(err))
		}

		rooms = room.NewStore(db, logs.GetChildLogger("room"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	options := listener.Options{
		DefaultPageSize:   conf.API.DefaultPageSize,
		MaxPageSize:       conf.API.MaxPageSize,
		DebugPasswordHash: conf.DebugPassword,
	}
	if err := listener.NewListener(conf.Listen, rooms, options, logs.GetChildLogger("listener")).Run(ctx); err != nil {
		logger.Errorw("Listener has finished with an error", zap.Error(err))
	} else {
		logger.Info("Listener has finished")
	}
}
