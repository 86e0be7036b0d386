// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package visualize

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/taskmap/taskmap/internal/inventory"
)

// widthMultiplier scales a container's slot count into a terminal
// column width, most granular for small inventories.
func widthMultiplier(totalSlots int) int {
	switch {
	case totalSlots <= 10:
		return 10
	case totalSlots <= 20:
		return 8
	case totalSlots <= 40:
		return 4
	default:
		return 1
	}
}

// block is one rendered band segment: a candidate label list, a slot
// count, and the color to shade it.
type block struct {
	labels []string
	count  int
	col    rgb
}

// printBlock picks the first candidate label that fits the block's
// rendered width and writes it, foreground black on the block's
// background color, padded to width with spaces.
func printBlock(w io.Writer, b block, mult int) {
	width := b.count * mult
	if width <= 0 {
		return
	}

	text := ""
	for _, candidate := range b.labels {
		if len(candidate) < width {
			text = candidate
			break
		}
	}

	c := color.New(color.BgRGB(int(b.col.R), int(b.col.G), int(b.col.B)), color.FgBlack)
	fmt.Fprint(w, c.Sprint(text+strings.Repeat(" ", width-len(text))))
}

// Render writes the four-band ASCII map of inv to w: system total,
// per-node, per-NUMA, then per-slot grouped by rank and job.
func Render(w io.Writer, inv *inventory.Inventory) {
	total := inv.TotalSlots()
	mult := widthMultiplier(total)

	printBlock(w, block{
		labels: []string{"Whole System", "System"},
		count:  total,
		col:    palette[0],
	}, mult)
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	for i, node := range inv.AllNodes() {
		printBlock(w, block{
			labels: []string{
				fmt.Sprintf("Node %d : %s", i, node.Host),
				node.Host,
				fmt.Sprintf("%d", i),
			},
			count: nodeSlotCount(node),
			col:   palette[(i+1)%len(palette)],
		}, mult)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	colorIdx := 0
	for _, numa := range inv.AllNumas() {
		printBlock(w, block{
			labels: []string{fmt.Sprintf("NUMA %d", numa.Index), fmt.Sprintf("%d", numa.Index)},
			count:  len(numa.Slots),
			col:    palette[colorIdx%len(palette)],
		}, mult)
		colorIdx++
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	for _, numa := range inv.AllNumas() {
		for _, g := range byRankAndJob(numa) {
			if g.jobID >= 0 {
				printBlock(w, block{
					labels: []string{
						fmt.Sprintf("Rank %d Job %d", g.rank, g.jobID),
						fmt.Sprintf("R:%d J:%d", g.rank, g.jobID),
						fmt.Sprintf("%d/%d", g.rank, g.jobID),
						fmt.Sprintf("%d", g.jobID),
					},
					count: g.count,
					col:   colorFor(g.jobID),
				}, mult)
			} else {
				printBlock(w, block{
					labels: []string{fmt.Sprintf("Rank %d", g.rank), fmt.Sprintf("%d", g.rank)},
					count:  g.count,
					col:    neutral,
				}, mult)
			}
		}
	}
	fmt.Fprintln(w)
}

func nodeSlotCount(node *inventory.Node) int {
	count := 0
	for _, idx := range node.NumaOrder() {
		count += len(node.Numas[idx].Slots)
	}
	return count
}

// rankJobGroup is one (rank, job) bucket within a NUMA domain's slots.
type rankJobGroup struct {
	rank, jobID, count int
}

// byRankAndJob groups numa's slots by (rank, job id), in Slot-insertion
// order, mirroring the original count_by_rank grouping.
func byRankAndJob(numa *inventory.NumaDomain) []rankJobGroup {
	var order []rankJobGroup
	index := make(map[[2]int]int)

	for _, s := range numa.Slots {
		key := [2]int{s.Rank, s.Job}
		if i, ok := index[key]; ok {
			order[i].count++
			continue
		}
		index[key] = len(order)
		order = append(order, rankJobGroup{rank: s.Rank, jobID: s.Job, count: 1})
	}
	return order
}
