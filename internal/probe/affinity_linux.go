// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package probe

import (
	"golang.org/x/sys/unix"

	"github.com/taskmap/taskmap/internal/taskerr"
)

// allowedCPUs reads this process's CPU affinity mask via sched_getaffinity,
// restricting topology discovery to the PUs the scheduler may actually
// place it on (the Go equivalent of RESTRICT_CPU_TO_THIS_PROCESS).
func allowedCPUs() (map[uint]bool, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, taskerr.NewDiscoveryErrorWithCause(
			taskerr.ErrorCodeTopologyFailed, "could not read CPU affinity mask", "", err)
	}

	// unix.CPUSet represents _CPU_SETSIZE (1024) bits regardless of word size.
	const maxCPUs = 1024

	allowed := make(map[uint]bool, set.Count())
	for cpu := 0; cpu < maxCPUs; cpu++ {
		if set.IsSet(cpu) {
			allowed[uint(cpu)] = true
		}
	}
	return allowed, nil
}
