// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package job

import (
	"regexp"
	"strconv"

	"github.com/taskmap/taskmap/internal/taskerr"
)

// placementRe splits a placement string into its order prefix ("A", "E",
// or a run of digits) and a trailing, possibly-empty, alphabetic locality
// token. A string that doesn't match this shape at all (e.g. "Q") is
// rejected as a bad placement string before the locality token is ever
// considered.
var placementRe = regexp.MustCompile(`^(A|E|[0-9]+)([a-zA-Z]*)$`)

// parsePlacement parses a placement string into its order kind, its fixed
// count (valid only when kind is OrderFixed), and its raw locality token
// (empty when the string didn't specify one).
func parsePlacement(s string) (kind OrderKind, count int, locRaw string, err error) {
	m := placementRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, "", taskerr.NewConfigError(
			taskerr.ErrorCodeBadPlacement, "placement string does not match \"ord [loc]\" grammar", s)
	}

	ord, locRaw := m[1], m[2]

	switch ord {
	case "E":
		kind = OrderEach
	case "A":
		kind = OrderAll
	default:
		n, convErr := strconv.Atoi(ord)
		if convErr != nil || n <= 0 {
			return 0, 0, "", taskerr.NewConfigError(
				taskerr.ErrorCodeBadPlacement, "fixed-count order must be a positive integer", s)
		}
		kind = OrderFixed
		count = n
	}

	if locRaw != "" {
		switch Locality(locRaw) {
		case LocNode, LocNuma, LocSlot:
			// valid
		default:
			return 0, 0, "", taskerr.NewConfigError(
				taskerr.ErrorCodeUnknownLocality, "unknown locality "+strconv.Quote(locRaw), s)
		}
	}

	if kind == OrderEach && locRaw == "" {
		return 0, 0, "", taskerr.NewConfigError(
			taskerr.ErrorCodeMissingLocality, "\"E\" placement requires a locality (Enuma, Enode, or Eslot)", s)
	}

	return kind, count, locRaw, nil
}

// Compose re-renders the order and an explicit (non-defaulted) locality
// token into the canonical placement-string form, for grammar round-trip
// checks: Compose(parsePlacement(s)) == s for every accepted s whose count
// has no leading zeros ("02slot" recomposes as "2slot").
func Compose(kind OrderKind, count int, locRaw string) string {
	var ord string
	switch kind {
	case OrderEach:
		ord = "E"
	case OrderAll:
		ord = "A"
	default:
		ord = strconv.Itoa(count)
	}
	return ord + locRaw
}
