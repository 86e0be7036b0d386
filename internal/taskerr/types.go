// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package taskerr provides the uniform, typed error reporting channel for
// taskmap: every fatal condition in the pipeline (job-file parsing,
// discovery, placement, emission) surfaces as one of a small set of error
// kinds instead of an ad hoc string.
package taskerr

import (
	"fmt"
	"time"
)

// ErrorCode identifies the specific failure within its Kind.
type ErrorCode string

const (
	// Config errors: bad placement grammar, unknown locality, bad YAML,
	// non-integer rank in the environment.
	ErrorCodeBadPlacement    ErrorCode = "BAD_PLACEMENT"
	ErrorCodeMissingLocality ErrorCode = "MISSING_LOCALITY"
	ErrorCodeUnknownLocality ErrorCode = "UNKNOWN_LOCALITY"
	ErrorCodeBadJobFile      ErrorCode = "BAD_JOB_FILE"
	ErrorCodeBadRankEnv      ErrorCode = "BAD_RANK_ENV"

	// Discovery errors: launcher missing, topology build failure, empty
	// inventory.
	ErrorCodeLauncherNotFound ErrorCode = "LAUNCHER_NOT_FOUND"
	ErrorCodeTopologyFailed   ErrorCode = "TOPOLOGY_FAILED"
	ErrorCodeEmptyInventory   ErrorCode = "EMPTY_INVENTORY"

	// Capacity errors: phase-1/2 cannot find room, emit-time unknown job id.
	ErrorCodeNoRoom       ErrorCode = "NO_ROOM"
	ErrorCodeUnknownJobID ErrorCode = "UNKNOWN_JOB_ID"

	// IO errors: can't read/write/spawn.
	ErrorCodeReadFailed  ErrorCode = "READ_FAILED"
	ErrorCodeWriteFailed ErrorCode = "WRITE_FAILED"
	ErrorCodeSpawnFailed ErrorCode = "SPAWN_FAILED"

	ErrorCodeUnknown ErrorCode = "UNKNOWN"
)

// Kind groups related error codes for handling and reporting, mirroring
// the four error classes of the design (ConfigError, DiscoveryError,
// CapacityError, IoError).
type Kind string

const (
	KindConfig    Kind = "CONFIG"
	KindDiscovery Kind = "DISCOVERY"
	KindCapacity  Kind = "CAPACITY"
	KindIO        Kind = "IO"
	KindUnknown   Kind = "UNKNOWN"
)

// TaskError is the structured error type returned across every package in
// this module.
type TaskError struct {
	Kind      Kind
	Code      ErrorCode
	Message   string
	Entity    string // the offending node/job id/placement string named in the diagnostic
	Timestamp time.Time
	Cause     error
}

// Error implements the error interface, producing the single-line
// diagnostic the design requires: it names the offending entity when one
// is set.
func (e *TaskError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *TaskError with the same code.
func (e *TaskError) Is(target error) bool {
	if t, ok := target.(*TaskError); ok {
		return e.Code == t.Code
	}
	return false
}

func newError(kind Kind, code ErrorCode, message string) *TaskError {
	return &TaskError{
		Kind:      kind,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// ConfigError reports a bad placement string, unknown locality, a missing
// required locality, a malformed job file, or a non-integer rank in the
// environment.
type ConfigError struct {
	*TaskError
}

// DiscoveryError reports that the launcher is missing, topology discovery
// failed, or the discovery round yielded zero usable rank reports.
type DiscoveryError struct {
	*TaskError
}

// CapacityError reports that a phase ran out of room, or that the emitter
// found a slot assigned to a job id outside the job list.
type CapacityError struct {
	*TaskError
}

// IoError reports that the job file could not be read, the multi-program
// file could not be written, or the launcher could not be spawned.
type IoError struct {
	*TaskError
}
