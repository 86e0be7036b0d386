// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package inventory is the hierarchical resource tree the placement
// solver operates on: nodes hold NUMA domains, NUMA domains hold slots,
// and every slot owns one rank's PU set.
package inventory

import (
	"fmt"
	"sort"

	"github.com/taskmap/taskmap/internal/rankreport"
	"github.com/taskmap/taskmap/internal/taskerr"
)

// Unassigned is the sentinel job id carried by a free Slot.
const Unassigned = -1

// Slot is the atomic scheduling unit: one rank's PU set within one NUMA
// domain. It transitions free -> assigned exactly once.
type Slot struct {
	Rank int
	PU   []uint
	Job  int
}

// Free reports whether the slot has not yet been assigned.
func (s *Slot) Free() bool {
	return s.Job == Unassigned
}

// Acquire assigns the slot to jobID, failing if it is already assigned.
func (s *Slot) Acquire(jobID int) error {
	if !s.Free() {
		return taskerr.NewCapacityError(
			taskerr.ErrorCodeNoRoom, "slot is already assigned", fmt.Sprintf("rank %d", s.Rank))
	}
	s.Job = jobID
	return nil
}

// NumaDomain is a NUMA node's ordered sequence of slots.
type NumaDomain struct {
	Index uint
	Slots []*Slot
}

// Acquire finds the first free slot in insertion order and assigns it to
// jobID, failing if the domain is full.
func (n *NumaDomain) Acquire(jobID int) (*Slot, error) {
	for _, s := range n.Slots {
		if s.Free() {
			_ = s.Acquire(jobID)
			return s, nil
		}
	}
	return nil, taskerr.NewCapacityError(
		taskerr.ErrorCodeNoRoom, "no free slot in NUMA domain", fmt.Sprintf("numa %d", n.Index))
}

// FreeCount returns the number of free slots in the domain.
func (n *NumaDomain) FreeCount() int {
	c := 0
	for _, s := range n.Slots {
		if s.Free() {
			c++
		}
	}
	return c
}

// Node is a host's mapping from NUMA index to NumaDomain.
type Node struct {
	Host  string
	Numas map[uint]*NumaDomain
}

// NumaOrder returns the node's NUMA indices in ascending numeric order,
// the canonicalization the design notes recommend for deterministic
// placement.
func (n *Node) NumaOrder() []uint {
	order := make([]uint, 0, len(n.Numas))
	for idx := range n.Numas {
		order = append(order, idx)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	return order
}

// Acquire tries Acquire on each NUMA domain in index order, succeeding on
// the first with room.
func (n *Node) Acquire(jobID int) (*Slot, error) {
	for _, idx := range n.NumaOrder() {
		if s, err := n.Numas[idx].Acquire(jobID); err == nil {
			return s, nil
		}
	}
	return nil, taskerr.NewCapacityError(
		taskerr.ErrorCodeNoRoom, "no free slot on node", n.Host)
}

// Inventory is the top-level mapping from host name to Node.
type Inventory struct {
	Nodes map[string]*Node
}

// HostOrder returns host names in lexicographic order, the
// canonicalization the design notes recommend so that phases 2 and 3
// produce a deterministic placement across runs.
func (inv *Inventory) HostOrder() []string {
	order := make([]string, 0, len(inv.Nodes))
	for host := range inv.Nodes {
		order = append(order, host)
	}
	sort.Strings(order)
	return order
}

// Build constructs an Inventory from the discovery driver's RankReports,
// in receipt order: one Slot is created per (host, numa-index, pu-set)
// triple, contributing len(report.Numa) slots per report.
func Build(reports []*rankreport.RankReport) *Inventory {
	inv := &Inventory{Nodes: make(map[string]*Node)}

	for _, report := range reports {
		node, ok := inv.Nodes[report.Host]
		if !ok {
			node = &Node{Host: report.Host, Numas: make(map[uint]*NumaDomain)}
			inv.Nodes[report.Host] = node
		}

		for i, numaIdx := range report.Numa {
			numa, ok := node.Numas[numaIdx]
			if !ok {
				numa = &NumaDomain{Index: numaIdx}
				node.Numas[numaIdx] = numa
			}
			numa.Slots = append(numa.Slots, &Slot{
				Rank: report.Rank,
				PU:   report.PU[i],
				Job:  Unassigned,
			})
		}
	}

	return inv
}

// AllNodes returns every Node in host order.
func (inv *Inventory) AllNodes() []*Node {
	out := make([]*Node, 0, len(inv.Nodes))
	for _, host := range inv.HostOrder() {
		out = append(out, inv.Nodes[host])
	}
	return out
}

// AllNumas returns every NumaDomain, node-major then numa-index-major.
func (inv *Inventory) AllNumas() []*NumaDomain {
	var out []*NumaDomain
	for _, node := range inv.AllNodes() {
		for _, idx := range node.NumaOrder() {
			out = append(out, node.Numas[idx])
		}
	}
	return out
}

// AllSlots returns every Slot, node-major, then numa-major, then
// slot-insertion order.
func (inv *Inventory) AllSlots() []*Slot {
	var out []*Slot
	for _, numa := range inv.AllNumas() {
		out = append(out, numa.Slots...)
	}
	return out
}

// FreeSlots counts every free Slot in the Inventory.
func (inv *Inventory) FreeSlots() int {
	count := 0
	for _, s := range inv.AllSlots() {
		if s.Free() {
			count++
		}
	}
	return count
}

// TotalSlots counts every Slot in the Inventory, free or assigned.
func (inv *Inventory) TotalSlots() int {
	return len(inv.AllSlots())
}
