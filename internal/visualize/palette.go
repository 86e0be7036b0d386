// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package visualize renders the ASCII placement map: four horizontal
// bands (system, node, NUMA, slot) with no effect on placement itself.
package visualize

// neutral is the fixed color for unassigned slots.
var neutral = rgb{155, 155, 155}

type rgb struct {
	R, G, B uint8
}

// palette assigns assigned-slot colors a stable identity derived from
// job id (palette[job_id % len(palette)]).
var palette = []rgb{
	{153, 204, 255},
	{112, 169, 223},
	{244, 224, 184},
	{178, 134, 202},
	{220, 208, 152},
	{136, 118, 196},
	{242, 216, 168},
	{162, 138, 204},
	{226, 210, 156},
	{144, 124, 180},
	{198, 67, 109},
	{45, 155, 235},
	{231, 156, 34},
	{118, 82, 174},
	{237, 125, 52},
	{102, 221, 135},
	{144, 51, 199},
	{255, 0, 153},
	{93, 188, 223},
	{247, 166, 39},
	{56, 114, 234},
	{165, 77, 34},
	{229, 173, 108},
	{139, 64, 217},
	{252, 227, 36},
	{81, 140, 216},
	{221, 144, 76},
	{146, 242, 134},
	{253, 215, 154},
	{69, 184, 231},
	{238, 136, 96},
	{183, 122, 223},
	{236, 204, 114},
	{115, 165, 243},
	{250, 187, 123},
	{93, 230, 155},
}

// colorFor derives a stable color for jobID; unassigned is signaled by
// inventory.Unassigned and always maps to the neutral gray.
func colorFor(jobID int) rgb {
	if jobID < 0 {
		return neutral
	}
	return palette[jobID%len(palette)]
}
