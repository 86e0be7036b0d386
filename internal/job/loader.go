// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package job

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taskmap/taskmap/internal/taskerr"
)

// rawEntry mirrors the on-disk job description shape: a YAML sequence of
// {map, command} objects.
type rawEntry struct {
	Map     string   `yaml:"map"`
	Command []string `yaml:"command"`
}

// Load parses a YAML job description from path into an ordered List,
// validating every entry's placement string against the grammar. It fails
// on the first offending entry, naming its source form (the "map" string);
// only the empty-command error also names the entry's index.
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, taskerr.NewIoError(taskerr.ErrorCodeReadFailed, "cannot read job file", path, err)
	}
	return Parse(data)
}

// Parse parses a YAML job description already read into memory. Load is
// the usual entry point; Parse exists so tests and callers that already
// have the bytes (e.g. embedded fixtures) don't need a temp file.
func Parse(data []byte) (*List, error) {
	var raw []rawEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, taskerr.NewConfigErrorWithCause(
			taskerr.ErrorCodeBadJobFile, "cannot parse job description YAML", "", err)
	}

	list := &List{Entries: make([]*Entry, 0, len(raw))}
	for i, r := range raw {
		if len(r.Command) == 0 {
			return nil, taskerr.NewConfigError(
				taskerr.ErrorCodeBadJobFile,
				"job entry has an empty command",
				fmt.Sprintf("entry %d (map=%q)", i, r.Map))
		}

		kind, count, locRaw, err := parsePlacement(r.Map)
		if err != nil {
			return nil, err
		}

		loc := Locality(locRaw)
		if loc == "" {
			loc = DefaultLocality
		}

		list.Entries = append(list.Entries, &Entry{
			ID:      i,
			Map:     r.Map,
			Kind:    kind,
			Count:   count,
			Loc:     loc,
			Command: r.Command,
		})
	}

	return list, nil
}
