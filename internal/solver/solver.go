// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package solver implements the three-phase placement algorithm: "E"
// jobs first, then fixed-count jobs, then "A" jobs sharing whatever is
// left. A Slot acquired in an earlier phase is permanently bound for
// the rest of the run.
package solver

import (
	"fmt"

	"github.com/taskmap/taskmap/internal/inventory"
	"github.com/taskmap/taskmap/internal/job"
	"github.com/taskmap/taskmap/internal/taskerr"
)

// Solve runs phases 1 through 3 over inv in place, binding every
// JobEntry in list to its acquired Slots. It returns the first fatal
// error encountered, leaving the Inventory with whatever partial
// bindings had already committed.
func Solve(list *job.List, inv *inventory.Inventory) error {
	if err := phaseEach(list, inv); err != nil {
		return err
	}
	if err := phaseFixed(list, inv); err != nil {
		return err
	}
	return phaseAll(list, inv)
}

// phaseEach is phase 1: for each "E" entry, acquire one Slot on every
// container at the entry's locality.
func phaseEach(list *job.List, inv *inventory.Inventory) error {
	for _, entry := range list.Each() {
		switch entry.Loc {
		case job.LocSlot:
			for _, s := range inv.AllSlots() {
				if s.Free() {
					_ = s.Acquire(entry.ID)
				}
			}
		case job.LocNuma:
			for _, n := range inv.AllNumas() {
				if _, err := n.Acquire(entry.ID); err != nil {
					return taskerr.NewCapacityError(
						taskerr.ErrorCodeNoRoom,
						"each-NUMA job could not acquire a slot in every NUMA domain",
						fmt.Sprintf("job %d", entry.ID))
				}
			}
		case job.LocNode:
			for _, n := range inv.AllNodes() {
				if _, err := n.Acquire(entry.ID); err != nil {
					return taskerr.NewCapacityError(
						taskerr.ErrorCodeNoRoom,
						"each-node job could not acquire a slot on every node",
						fmt.Sprintf("job %d", entry.ID))
				}
			}
		}
	}
	return nil
}

// phaseFixed is phase 2: for each fixed-count entry, acquire exactly N
// Slots at the entry's locality.
func phaseFixed(list *job.List, inv *inventory.Inventory) error {
	for _, entry := range list.Fixed() {
		if err := acquireN(inv, entry.ID, entry.Count, entry.Loc, true); err != nil {
			return err
		}
	}
	return nil
}

// phaseAll is phase 3: the free slots remaining after phases 1 and 2
// are split among "A" jobs, first job getting the remainder.
func phaseAll(list *job.List, inv *inventory.Inventory) error {
	all := list.All()
	k := len(all)
	if k == 0 {
		return nil
	}

	r := inv.FreeSlots()
	quantum := r / k
	rest := r - quantum*k

	for i, entry := range all {
		want := quantum
		if i == 0 {
			want += rest
		}
		if want == 0 {
			continue
		}
		if err := acquireN(inv, entry.ID, want, entry.Loc, false); err != nil {
			return err
		}
	}
	return nil
}

// acquireN performs the locality-aware acquisition walk shared by
// phases 2 and 3. requireUpfrontCount enforces the slot-locality
// "fail if fewer than N free slots remain" check; it is true for phase
// 2's fixed-count jobs and false for phase 3's "A" jobs, where
// per-container overfill is tolerated but a zero-progress pass is
// still fatal.
func acquireN(inv *inventory.Inventory, jobID, n int, loc job.Locality, requireUpfrontCount bool) error {
	switch loc {
	case job.LocNuma:
		numas := inv.AllNumas()
		return acquireContainerWalk(jobID, n, len(numas), func(idx int) bool {
			_, err := numas[idx].Acquire(jobID)
			return err == nil
		})
	case job.LocNode:
		nodes := inv.AllNodes()
		return acquireContainerWalk(jobID, n, len(nodes), func(idx int) bool {
			_, err := nodes[idx].Acquire(jobID)
			return err == nil
		})
	default:
		return acquireSlotWalk(inv, jobID, n, requireUpfrontCount)
	}
}

// acquireSlotWalk is the slot-locality walk: a single linear pass,
// acquiring the first n free Slots.
func acquireSlotWalk(inv *inventory.Inventory, jobID, n int, requireUpfrontCount bool) error {
	slots := inv.AllSlots()
	if requireUpfrontCount {
		free := 0
		for _, s := range slots {
			if s.Free() {
				free++
			}
		}
		if free < n {
			return taskerr.RequireSlots(jobID, n, free)
		}
	}

	acquired := 0
	for _, s := range slots {
		if acquired == n {
			break
		}
		if s.Free() {
			_ = s.Acquire(jobID)
			acquired++
		}
	}
	if acquired < n {
		return taskerr.RequireSlots(jobID, n, acquired)
	}
	return nil
}

// acquireContainerWalk is the numa/node-locality walk: repeated passes
// over containers, each pass attempting one acquisition per container,
// until n acquisitions are made or a full pass makes no progress.
func acquireContainerWalk(jobID, n, count int, acquireAt func(idx int) bool) error {
	acquired := 0

	for acquired < n {
		progressed := false
		for i := 0; i < count && acquired < n; i++ {
			if acquireAt(i) {
				acquired++
				progressed = true
			}
		}
		if !progressed {
			return taskerr.NewCapacityError(
				taskerr.ErrorCodeNoRoom,
				"no room left for fixed-count job",
				fmt.Sprintf("job %d", jobID))
		}
	}
	return nil
}
