// Package derrors defines the error kinds shared across bft.
//
// Every kind carries a Code so the CLI can report a stable identifier and
// callers can branch with errors.As or HasCode instead of matching text.
package derrors

import (
	"errors"
	"fmt"
)

// Code identifies an error kind.
type Code string

// Error codes.
const (
	CodeNoCompleter Code = "NO_COMPLETER"
	CodeConfig      Code = "CONFIG_ERROR"
	CodeCache       Code = "CACHE_ERROR"
	CodeExec        Code = "EXEC_ERROR"
	CodeNotFound    Code = "NOT_FOUND"
	CodePattern     Code = "PATTERN_ERROR"
	CodeSelector    Code = "SELECTOR_ERROR"
)

// BftError is implemented by every error kind in this package.
type BftError interface {
	error
	Code() Code
}

// kind holds what all error kinds share. The subject is the command,
// path or pattern the error is about.
type kind struct {
	code  Code
	msg   string
	cause error
}

func (k *kind) Error() string {
	if k.cause == nil {
		return k.msg
	}
	return k.msg + ": " + k.cause.Error()
}

func (k *kind) Code() Code    { return k.code }
func (k *kind) Unwrap() error { return k.cause }

// HasCode reports whether err, or an error it wraps, has the given code.
func HasCode(err error, code Code) bool {
	var be BftError
	return errors.As(err, &be) && be.Code() == code
}

// CodeOf returns the code of the first BftError in err's chain, or "".
func CodeOf(err error) Code {
	var be BftError
	if errors.As(err, &be) {
		return be.Code()
	}
	return ""
}

// NoCompleterError means no completion strategy applies to a command,
// not even the default one.
type NoCompleterError struct {
	kind
	Command string
}

func NewNoCompleterError(command string) *NoCompleterError {
	return &NoCompleterError{
		kind:    kind{code: CodeNoCompleter, msg: fmt.Sprintf("no completer found for command %q", command)},
		Command: command,
	}
}

// IsNoCompleter reports whether err is or wraps a NoCompleterError.
func IsNoCompleter(err error) bool {
	return HasCode(err, CodeNoCompleter)
}

// ConfigurationError is a config file that cannot be loaded or holds an
// unusable value.
type ConfigurationError struct {
	kind
	Path string
}

func NewConfigurationError(path, msg string, cause error) *ConfigurationError {
	return &ConfigurationError{kind: kind{CodeConfig, msg, cause}, Path: path}
}

// CacheError is a failed read or write of the compspec cache.
type CacheError struct {
	kind
	Path string
}

func NewCacheError(path, msg string, cause error) *CacheError {
	return &CacheError{kind: kind{CodeCache, msg, cause}, Path: path}
}

// ExecutionError is an external tool (bash, carapace, a cobra or urfave
// program) that failed to run or exited non-zero.
type ExecutionError struct {
	kind
	Command string
}

func NewExecutionError(command, msg string, cause error) *ExecutionError {
	return &ExecutionError{kind: kind{CodeExec, msg, cause}, Command: command}
}

// NotFoundError is a lookup that found nothing.
type NotFoundError struct {
	kind
	Resource string
}

func NewNotFoundError(resource, msg string) *NotFoundError {
	return &NotFoundError{kind: kind{code: CodeNotFound, msg: msg}, Resource: resource}
}

// PatternError records a filter pattern that could not be compiled.
// The pipeline treats such a filter as a no-op.
type PatternError struct {
	kind
	Pattern string
}

func NewPatternError(pattern string, cause error) *PatternError {
	return &PatternError{
		kind:    kind{CodePattern, fmt.Sprintf("invalid filter pattern %q", pattern), cause},
		Pattern: pattern,
	}
}

// SelectorError is a failure of the interactive selector. Cancelling the
// selection is not an error.
type SelectorError struct {
	kind
	Selector string
}

func NewSelectorError(selector, msg string, cause error) *SelectorError {
	return &SelectorError{kind: kind{CodeSelector, msg, cause}, Selector: selector}
}
