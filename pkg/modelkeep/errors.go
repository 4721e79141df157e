package modelkeep

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration validation.
var (
	// ErrPathRequired indicates a positive saving frequency with no
	// checkpoint path configured.
	ErrPathRequired = errors.New("checkpoint path required when saving frequency is positive")

	// ErrCheckpointingDisabled indicates a save was requested on a manager
	// with no checkpoint root.
	ErrCheckpointingDisabled = errors.New("checkpointing disabled: no checkpoint root")

	// ErrNegativeRound indicates a round counter below zero.
	ErrNegativeRound = errors.New("round must be non-negative")

	// ErrOptionType indicates a job option held a value of the wrong type.
	ErrOptionType = errors.New("invalid option type")
)

// Sentinel errors for state serialization.
var (
	// ErrSerializeState indicates model state serialization failed.
	ErrSerializeState = errors.New("failed to serialize model state")
)

// ConfigError reports an invalid or ill-typed job option.
type ConfigError struct {
	// Option is the job option at fault (e.g. "checkpoint_path").
	Option string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config option %s: %v", e.Option, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StorageError wraps errors from the durable store.
type StorageError struct {
	// Op is the operation that failed ("list", "read", "write", "delete").
	Op string
	// Path is the store path involved, if any.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// DecodeError reports a checkpoint whose payload could not be
// deserialized. The entry at Path is left in place so it can be
// inspected or repaired.
type DecodeError struct {
	// Path is the store path of the unreadable entry.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode checkpoint %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
