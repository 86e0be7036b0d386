// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package rankreport defines the transient wire record a probed rank
// prints to stdout and the discovery driver decodes.
package rankreport

import (
	"encoding/json"
	"fmt"
)

// RankReport is one rank's local topology view: the NUMA domains it can
// see, restricted to its own CPU set, and the PUs within each.
type RankReport struct {
	Host string   `json:"host"`
	Rank int      `json:"rank"`
	Numa []uint   `json:"numa"`
	PU   [][]uint `json:"pu"`
}

// Validate checks the RankReport's structural invariant: pu and numa are
// in positional correspondence.
func (r *RankReport) Validate() error {
	if len(r.PU) != len(r.Numa) {
		return fmt.Errorf("rankreport: len(pu)=%d != len(numa)=%d", len(r.PU), len(r.Numa))
	}
	return nil
}

// Encode writes r as a single JSON line (the wire format emitted by probe
// mode: one object per line, no other stdout output).
func Encode(r *RankReport) ([]byte, error) {
	line, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}

// Decode parses a single JSON line into a RankReport.
func Decode(line []byte) (*RankReport, error) {
	var r RankReport
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
