// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package probe runs inside a single allocation rank (invoked as
// `srun <self> -m`) and reports that rank's NUMA/PU topology, restricted
// to its own CPU set, as a single RankReport JSON line on stdout.
package probe

import (
	"os"
	"strconv"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/topology"

	"github.com/taskmap/taskmap/internal/rankreport"
	"github.com/taskmap/taskmap/internal/taskerr"
)

// Self builds this rank's RankReport: host name, rank id, and the
// NUMA/PU layout visible within the process's own CPU affinity mask.
func Self() (*rankreport.RankReport, error) {
	host, err := resolveHost()
	if err != nil {
		return nil, err
	}

	rank, err := resolveRank()
	if err != nil {
		return nil, err
	}

	numa, pu, err := discoverTopology()
	if err != nil {
		return nil, err
	}

	r := &rankreport.RankReport{Host: host, Rank: rank, Numa: numa, PU: pu}
	if err := r.Validate(); err != nil {
		return nil, taskerr.NewDiscoveryErrorWithCause(
			taskerr.ErrorCodeTopologyFailed, "discovered topology is malformed", host, err)
	}
	return r, nil
}

// resolveHost follows the HOST-override-then-hostname precedence: an
// explicit HOST env var wins, otherwise the kernel-reported host name.
func resolveHost() (string, error) {
	if h := os.Getenv("HOST"); h != "" {
		return h, nil
	}
	h, err := os.Hostname()
	if err != nil {
		return "", taskerr.NewDiscoveryErrorWithCause(
			taskerr.ErrorCodeTopologyFailed, "could not determine host name", "", err)
	}
	return h, nil
}

// resolveRank follows PMI_RANK-then-PMIX_RANK precedence, falling back
// to the -1 sentinel when neither is set (matching how display-only
// probes are reported: no allocation rank assigned them one).
func resolveRank() (int, error) {
	if v := os.Getenv("PMI_RANK"); v != "" {
		return parseRank(v, "PMI_RANK")
	}
	if v := os.Getenv("PMIX_RANK"); v != "" {
		return parseRank(v, "PMIX_RANK")
	}
	return -1, nil
}

func parseRank(v, source string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, taskerr.NewConfigErrorWithCause(
			taskerr.ErrorCodeBadRankEnv, "rank environment variable is not an integer", source, err)
	}
	return n, nil
}

// discoverTopology restricts hardware topology discovery to the
// process's own CPU set (see affinity_linux.go/affinity_other.go) and
// returns the NUMA ids and per-NUMA PU lists that are reachable from it.
func discoverTopology() (numa []uint, pu [][]uint, err error) {
	allowed, err := allowedCPUs()
	if err != nil {
		return nil, nil, err
	}

	topo, err := ghw.Topology()
	if err != nil {
		return nil, nil, taskerr.NewDiscoveryErrorWithCause(
			taskerr.ErrorCodeTopologyFailed, "hardware topology discovery failed", "", err)
	}

	for _, node := range topo.Nodes {
		if node.ID < 0 {
			continue
		}
		pus := restrictedPUs(node, allowed)
		if len(pus) == 0 {
			continue
		}
		numa = append(numa, uint(node.ID))
		pu = append(pu, pus)
	}

	if len(numa) == 0 {
		return nil, nil, taskerr.NewDiscoveryError(
			taskerr.ErrorCodeTopologyFailed, "no NUMA domain intersects this process's CPU set", "")
	}

	return numa, pu, nil
}

// restrictedPUs returns the processing unit ids of node that are also
// present in allowed; when allowed is nil, every PU on the node is kept
// (no affinity restriction is available on this platform).
func restrictedPUs(node *topology.Node, allowed map[uint]bool) []uint {
	var pus []uint
	for _, core := range node.Cores {
		for _, id := range core.LogicalProcessors {
			pu := uint(id)
			if allowed != nil && !allowed[pu] {
				continue
			}
			pus = append(pus, pu)
		}
	}
	return dedupeSorted(pus)
}

func dedupeSorted(pus []uint) []uint {
	seen := make(map[uint]bool, len(pus))
	var out []uint
	for _, p := range pus {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
