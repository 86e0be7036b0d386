// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package launcher drives srun: it fans the probe binary out across the
// allocation to discover topology, then hands the finished placement
// back to srun as a multi-program file.
package launcher

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/google/uuid"

	"github.com/taskmap/taskmap/internal/obslog"
	"github.com/taskmap/taskmap/internal/rankreport"
	"github.com/taskmap/taskmap/internal/taskerr"
)

// DefaultLauncherBinary is the launcher binary looked up on PATH.
const DefaultLauncherBinary = "srun"

// CheckOnPath confirms launcherBin is resolvable on PATH, returning a
// DiscoveryError naming it if not.
func CheckOnPath(launcherBin string) error {
	if _, err := exec.LookPath(launcherBin); err != nil {
		return taskerr.NewDiscoveryErrorWithCause(
			taskerr.ErrorCodeLauncherNotFound, "launcher binary not found on PATH", launcherBin, err)
	}
	return nil
}

// Discover spawns `launcherBin <self> -m` so that one probe process runs
// per allocation rank, decodes each stdout line as a RankReport, and
// tolerates interleaved non-JSON lines by logging and skipping them —
// the one explicitly non-fatal condition in the error policy.
func Discover(ctx context.Context, launcherBin string, logger obslog.Logger) ([]*rankreport.RankReport, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, taskerr.NewDiscoveryErrorWithCause(
			taskerr.ErrorCodeTopologyFailed, "could not determine the path to this binary", "", err)
	}

	roundID := uuid.NewString()
	logger = logger.With("round_id", roundID)
	logger.Info("starting topology discovery", "launcher", launcherBin)

	cmd := exec.CommandContext(ctx, launcherBin, self, "-m")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, taskerr.NewIoError(
			taskerr.ErrorCodeSpawnFailed, "launcher exited with an error during discovery", launcherBin, err)
	}

	reports := make([]*rankreport.RankReport, 0)
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		report, err := rankreport.Decode(line)
		if err != nil {
			logger.Warn("discarding malformed probe output line", "line", string(line), "error", err)
			continue
		}
		reports = append(reports, report)
	}
	if err := scanner.Err(); err != nil {
		return nil, taskerr.NewIoError(
			taskerr.ErrorCodeReadFailed, "failed reading launcher stdout", launcherBin, err)
	}

	if len(reports) == 0 {
		return nil, taskerr.NewDiscoveryError(
			taskerr.ErrorCodeEmptyInventory, "discovery produced zero usable rank reports", launcherBin)
	}

	logger.Info("topology discovery complete", "ranks", len(reports))
	return reports, nil
}
