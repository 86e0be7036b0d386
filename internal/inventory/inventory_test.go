package inventory

import (
	"testing"

	"github.com/taskmap/taskmap/internal/rankreport"
)

func sampleReports() []*rankreport.RankReport {
	return []*rankreport.RankReport{
		{Host: "node02", Rank: 0, Numa: []uint{0, 1}, PU: [][]uint{{0, 1}, {2, 3}}},
		{Host: "node01", Rank: 0, Numa: []uint{0}, PU: [][]uint{{0, 1}}},
		{Host: "node01", Rank: 1, Numa: []uint{1}, PU: [][]uint{{2, 3}}},
	}
}

// TestBuild_TotalSlots is property P1: total slot count equals the sum
// of NUMA domains contributed by every rank report.
func TestBuild_TotalSlots(t *testing.T) {
	inv := Build(sampleReports())
	if got := inv.TotalSlots(); got != 4 {
		t.Errorf("TotalSlots() = %d, want 4", got)
	}
	if got := inv.FreeSlots(); got != 4 {
		t.Errorf("FreeSlots() = %d, want 4", got)
	}
}

func TestBuild_HostOrderIsLexicographic(t *testing.T) {
	inv := Build(sampleReports())
	order := inv.HostOrder()
	if len(order) != 2 || order[0] != "node01" || order[1] != "node02" {
		t.Errorf("HostOrder() = %v, want [node01 node02]", order)
	}
}

func TestNode_NumaOrderIsNumericallyAscending(t *testing.T) {
	inv := Build(sampleReports())
	node := inv.Nodes["node02"]
	order := node.NumaOrder()
	if len(order) != 2 || order[0] != 0 || order[1] != 1 {
		t.Errorf("NumaOrder() = %v, want [0 1]", order)
	}
}

func TestSlot_AcquireOnce(t *testing.T) {
	s := &Slot{Rank: 0, PU: []uint{0}, Job: Unassigned}
	if !s.Free() {
		t.Fatal("new slot should be free")
	}
	if err := s.Acquire(7); err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if s.Free() {
		t.Error("slot should no longer be free")
	}
	if err := s.Acquire(8); err == nil {
		t.Error("expected an error acquiring an already-assigned slot")
	}
}

func TestNumaDomain_AcquireFirstFree(t *testing.T) {
	n := &NumaDomain{Index: 0, Slots: []*Slot{
		{Rank: 0, Job: 3},
		{Rank: 1, Job: Unassigned},
		{Rank: 2, Job: Unassigned},
	}}
	s, err := n.Acquire(9)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if s.Rank != 1 {
		t.Errorf("acquired rank %d, want 1 (first free)", s.Rank)
	}
	if n.FreeCount() != 1 {
		t.Errorf("FreeCount() = %d, want 1", n.FreeCount())
	}
}

func TestNumaDomain_AcquireFailsWhenFull(t *testing.T) {
	n := &NumaDomain{Index: 0, Slots: []*Slot{{Rank: 0, Job: 1}}}
	if _, err := n.Acquire(2); err == nil {
		t.Fatal("expected an error acquiring from a full domain")
	}
}

func TestNode_AcquireDelegatesToFirstNumaWithRoom(t *testing.T) {
	node := &Node{Host: "n1", Numas: map[uint]*NumaDomain{
		0: {Index: 0, Slots: []*Slot{{Rank: 0, Job: 5}}},
		1: {Index: 1, Slots: []*Slot{{Rank: 1, Job: Unassigned}}},
	}}
	s, err := node.Acquire(6)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if s.Rank != 1 {
		t.Errorf("acquired rank %d, want 1", s.Rank)
	}
}

func TestNode_AcquireFailsWhenAllNumasFull(t *testing.T) {
	node := &Node{Host: "n1", Numas: map[uint]*NumaDomain{
		0: {Index: 0, Slots: []*Slot{{Rank: 0, Job: 5}}},
	}}
	if _, err := node.Acquire(6); err == nil {
		t.Fatal("expected an error when every NUMA domain is full")
	}
}

func TestInventory_AllSlotsDeterministicOrder(t *testing.T) {
	inv := Build(sampleReports())
	slots := inv.AllSlots()
	if len(slots) != 4 {
		t.Fatalf("len(AllSlots()) = %d, want 4", len(slots))
	}
	// node01 sorts before node02, so node01's ranks come first.
	if slots[0].Rank != 0 || slots[1].Rank != 1 {
		t.Errorf("first two slots = ranks %d,%d, want 0,1 (node01)", slots[0].Rank, slots[1].Rank)
	}
}
