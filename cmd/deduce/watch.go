package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deduce-tools/deduce/internal/deduction"
	"github.com/deduce-tools/deduce/internal/watch"
)

const debounceWindow = 250 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch SUITE",
	Short: "Run a suite, then re-run it whenever the file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	eng := deduction.NewEngine(deduction.Config{Trace: tracing()})
	if _, err := checkSuite(cmd, eng, path); err != nil {
		return err
	}

	fw, err := watch.New()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Watch the directory, not the file: editors commonly replace files via
	// rename, which drops a direct file watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return err
	}

	logger.Info("watching suite", zap.String("path", path))

	events := watch.Debounce(fw.Events(), debounceWindow)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Path) != path {
				continue
			}
			if ev.Op&(watch.OpWrite|watch.OpCreate|watch.OpRename) == 0 {
				continue
			}
			logger.Debug("suite changed, re-checking", zap.String("path", ev.Path))
			if _, err := checkSuite(cmd, eng, path); err != nil {
				logger.Warn("suite re-check failed", zap.Error(err))
			}
		case err := <-fw.Errors():
			logger.Warn("watch error", zap.Error(err))
		case <-cmd.Context().Done():
			return nil
		}
	}
}
