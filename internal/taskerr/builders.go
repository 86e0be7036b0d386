// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package taskerr

import "fmt"

// NewConfigError builds a ConfigError naming the offending entity (a
// placement string, a job file path, or an environment variable).
func NewConfigError(code ErrorCode, message, entity string) *ConfigError {
	e := newError(KindConfig, code, message)
	e.Entity = entity
	return &ConfigError{e}
}

// NewConfigErrorWithCause wraps an underlying parse error inside a
// ConfigError.
func NewConfigErrorWithCause(code ErrorCode, message, entity string, cause error) *ConfigError {
	e := newError(KindConfig, code, message)
	e.Entity = entity
	e.Cause = cause
	return &ConfigError{e}
}

// NewDiscoveryError builds a DiscoveryError naming the offending condition
// (the launcher binary name, the host that failed topology probing).
func NewDiscoveryError(code ErrorCode, message, entity string) *DiscoveryError {
	e := newError(KindDiscovery, code, message)
	e.Entity = entity
	return &DiscoveryError{e}
}

// NewDiscoveryErrorWithCause wraps an underlying error inside a
// DiscoveryError.
func NewDiscoveryErrorWithCause(code ErrorCode, message, entity string, cause error) *DiscoveryError {
	e := newError(KindDiscovery, code, message)
	e.Entity = entity
	e.Cause = cause
	return &DiscoveryError{e}
}

// NewCapacityError builds a CapacityError naming the job id or container
// that ran out of room.
func NewCapacityError(code ErrorCode, message, entity string) *CapacityError {
	e := newError(KindCapacity, code, message)
	e.Entity = entity
	return &CapacityError{e}
}

// NewIoError builds an IoError naming the path or command that failed.
func NewIoError(code ErrorCode, message, entity string, cause error) *IoError {
	e := newError(KindIO, code, message)
	e.Entity = entity
	e.Cause = cause
	return &IoError{e}
}

// RequireSlots formats the "N slots" capacity diagnostic used by S4: a
// fixed-count job requesting more slots than remain free.
func RequireSlots(jobID int, requested, free int) *CapacityError {
	return NewCapacityError(
		ErrorCodeNoRoom,
		fmt.Sprintf("job %d requested %d slots but only %d are free", jobID, requested, free),
		fmt.Sprintf("job %d", jobID),
	)
}
