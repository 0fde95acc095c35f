package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"runtime"
	"strings"

	"github.com/mdouchement/notepad/internal/config"
	"github.com/mdouchement/notepad/internal/database"
	"github.com/mdouchement/notepad/internal/logger"
	"github.com/mdouchement/notepad/internal/server"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "notepad",
		Short:   "Minimal note-taking web application",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	reindexCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(reindexCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := config.Load(cfg)
			if err != nil {
				return err
			}

			if konf.Credentials.Backend != database.BackendStorm {
				log.Printf("Nothing to initialize for %s backend\n", konf.Credentials.Backend)
				return nil
			}
			return database.StormInit(konf.Credentials)
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := config.Load(cfg)
			if err != nil {
				return err
			}

			if konf.Credentials.Backend != database.BackendStorm {
				return errors.Errorf("reindex is not supported by %s backend", konf.Credentials.Backend)
			}
			return database.StormReIndex(konf.Credentials)
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := config.Load(cfg)
			if err != nil {
				return err
			}

			logr, err := logger.New(konf.Log)
			if err != nil {
				return err
			}

			db, err := database.Open(konf.Credentials)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			engine, err := server.EchoEngine(server.Controller{
				Version:  version,
				Database: db,
				Logger:   logr,
			})
			if err != nil {
				return err
			}
			server.PrintRoutes(os.Stdout, engine)

			address := konf.Address
			message := "could not run server"
			logr.Infof("Server listening on %s", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				removeSocket(logr, socketFile)
				defer removeSocket(logr, socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return errors.Wrap(err, message)
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}
)

// removeSocket removes a leftover unix socket file.
func removeSocket(log logrus.FieldLogger, socketFile string) {
	if _, err := os.Stat(socketFile); err != nil {
		return
	}

	log.Infof("Removing existing %s", socketFile)
	if err := os.Remove(socketFile); err != nil {
		log.WithError(err).Warnf("Could not remove %s", socketFile)
	}
}
