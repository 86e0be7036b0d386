// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/taskmap/taskmap/internal/inventory"
	"github.com/taskmap/taskmap/internal/job"
	"github.com/taskmap/taskmap/internal/taskerr"
)

// DefaultMultiProgPath is the multi-program file srun --multi-prog reads.
const DefaultMultiProgPath = "./jobfile.slurm"

// WriteMultiProg walks every Slot in inv, groups assigned ranks by job
// id, and writes one line per job with any assigned ranks to path:
// "<rank_csv> <command_argv_joined_by_space>\n". An assigned slot whose
// job id has no corresponding JobEntry is fatal.
func WriteMultiProg(path string, list *job.List, inv *inventory.Inventory) error {
	groups := make(map[int][]int)
	var order []int

	for _, s := range inv.AllSlots() {
		if s.Job == inventory.Unassigned {
			continue
		}
		if _, seen := groups[s.Job]; !seen {
			order = append(order, s.Job)
		}
		groups[s.Job] = append(groups[s.Job], s.Rank)
	}

	f, err := os.Create(path)
	if err != nil {
		return taskerr.NewIoError(
			taskerr.ErrorCodeWriteFailed, "could not create multi-program file", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, jobID := range order {
		entry, ok := list.Get(jobID)
		if !ok {
			return taskerr.NewCapacityError(
				taskerr.ErrorCodeUnknownJobID, "assigned slot references an unknown job id", fmt.Sprintf("job %d", jobID))
		}

		ranks := groups[jobID]
		rankStrs := make([]string, len(ranks))
		for i, r := range ranks {
			rankStrs[i] = strconv.Itoa(r)
		}

		line := fmt.Sprintf("%s %s\n", strings.Join(rankStrs, ","), strings.Join(entry.Command, " "))
		if _, err := w.WriteString(line); err != nil {
			return taskerr.NewIoError(
				taskerr.ErrorCodeWriteFailed, "failed writing multi-program file", path, err)
		}
	}

	if err := w.Flush(); err != nil {
		return taskerr.NewIoError(
			taskerr.ErrorCodeWriteFailed, "failed flushing multi-program file", path, err)
	}
	return nil
}
