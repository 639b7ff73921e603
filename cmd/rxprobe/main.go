package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xinjiayu/rxcore/internal/log"
	"github.com/xinjiayu/rxcore/internal/probe"
)

var (
	logLevel string
	jsonLog  bool
	runAll   bool
)

func main() {
	command := &cobra.Command{
		Use:   "rxprobe",
		Short: "Replay recorded behavioral probes of the rxcore engine",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := log.Setup(logLevel, jsonLog); err != nil {
				logrus.Fatal(err)
			}
		},
	}
	command.PersistentFlags().StringVar(&logLevel, "log-level", "info", "set log level")
	command.PersistentFlags().BoolVar(&jsonLog, "json", false, "write logs as json")

	command.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List probes",
		Run:   list,
	})
	runCommand := &cobra.Command{
		Use:   "run [probe]...",
		Short: "Run probes and compare their notification logs",
		Run:   run,
	}
	runCommand.Flags().BoolVarP(&runAll, "all", "a", false, "run every probe")
	command.AddCommand(runCommand)

	if err := command.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func list(cmd *cobra.Command, args []string) {
	for _, p := range probe.List() {
		logrus.WithField("description", p.Description).Info(p.Name)
	}
}

func run(cmd *cobra.Command, args []string) {
	names := args
	if runAll {
		names = probe.Names()
	}
	if len(names) == 0 {
		logrus.Fatal("no probe selected, pass probe names or --all")
	}

	var failed int
	for _, name := range names {
		logger := log.NewLogger(name)
		result, err := probe.Run(name, logger)
		if errors.Is(err, probe.ErrUnknownProbe) {
			logrus.Fatal(err)
		}
		for _, event := range result.Events {
			logger.Info(event)
		}
		if err != nil {
			failed++
			logger.WithField("expected", result.Expected).Error(err)
			continue
		}
		logger.Info("ok")
	}
	if failed > 0 {
		logrus.Errorf("%d of %d probes failed", failed, len(names))
		os.Exit(1)
	}
}
