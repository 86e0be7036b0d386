// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/taskmap/taskmap/internal/inventory"
	"github.com/taskmap/taskmap/internal/job"
	"github.com/taskmap/taskmap/internal/launcher"
	"github.com/taskmap/taskmap/internal/obslog"
	"github.com/taskmap/taskmap/internal/probe"
	"github.com/taskmap/taskmap/internal/rankreport"
	"github.com/taskmap/taskmap/internal/runtimecfg"
	"github.com/taskmap/taskmap/internal/solver"
	"github.com/taskmap/taskmap/internal/taskerr"
	"github.com/taskmap/taskmap/internal/visualize"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = ""
	Commit    = ""

	// Flags
	mapMode     bool
	displayMode bool

	rootCmd = &cobra.Command{
		Use:     "taskmap",
		Short:   "Co-scheduler that places sub-jobs onto an allocation's NUMA/slot layout",
		Long:    `taskmap partitions the node/NUMA/slot resources of a SLURM allocation across user-declared sub-jobs and launches them via srun --multi-prog.`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		RunE:    run,
	}
)

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
	rootCmd.Flags().BoolVarP(&mapMode, "map", "m", false, "probe mode: emit one JSON RankReport for this process and exit")
	rootCmd.Flags().BoolVarP(&displayMode, "display", "d", false, "print the ASCII placement visualization")
}

func run(cmd *cobra.Command, args []string) error {
	if mapMode && displayMode {
		return fmt.Errorf("map (-m) and display (-d) options are mutually exclusive")
	}

	cfg := runtimecfg.NewDefault()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logCfg := obslog.DefaultConfig()
	logCfg.Version = Version
	if cfg.Debug {
		logCfg.Level = slog.LevelDebug
	}
	logger := obslog.NewLogger(logCfg)

	if mapMode {
		return runProbe()
	}

	if err := launcher.CheckOnPath(cfg.Launcher); err != nil {
		return err
	}

	inv, err := discover(cmd.Context(), cfg.Launcher, logger)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if displayMode {
			visualize.Render(os.Stdout, inv)
			return nil
		}
		fmt.Println("Pass a job.yml file to run a job")
		return nil
	}

	jobPath := args[0]
	list, err := job.Load(jobPath)
	if err != nil {
		return err
	}

	if err := solver.Solve(list, inv); err != nil {
		return err
	}

	if displayMode {
		visualize.Render(os.Stdout, inv)
	}

	if err := launcher.WriteMultiProg(cfg.JobFilePath, list, inv); err != nil {
		return err
	}

	return launchWorkload(cfg.Launcher, cfg.JobFilePath)
}

// runProbe runs this process as a single probed rank, emitting its
// RankReport as one JSON line and exiting. It bypasses every other
// pipeline stage.
func runProbe() error {
	report, err := probe.Self()
	if err != nil {
		return err
	}
	line, err := rankreport.Encode(report)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(line)
	return err
}

// discover fans the probe out across the allocation and builds the
// Inventory from the collected RankReports.
func discover(ctx context.Context, launcherBin string, logger obslog.Logger) (*inventory.Inventory, error) {
	reports, err := launcher.Discover(ctx, launcherBin, logger)
	if err != nil {
		return nil, err
	}
	return inventory.Build(reports), nil
}

// launchWorkload hands the finished placement to the launcher binary
// as `<launcherBin> --multi-prog <multiProgPath>`, inheriting this
// process's stdio and waiting for it to exit.
func launchWorkload(launcherBin, multiProgPath string) error {
	cmd := exec.Command(launcherBin, "--multi-prog", multiProgPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		return taskerr.NewIoError(taskerr.ErrorCodeSpawnFailed, "launcher exited with an error", launcherBin, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
