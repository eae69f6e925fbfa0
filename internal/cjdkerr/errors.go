// Package cjdkerr defines the cjdkgo error taxonomy described in spec.md §7:
// ConfigError, JdkNotFoundError and InstallError, all implementing CjdkError
// so the façade can map a failure to an exit code without string-matching
// error messages.
package cjdkerr

import "fmt"

// CjdkError is the supertype of every structured error the core produces.
type CjdkError interface {
	error
	Kind() string
}

// ExitCode returns the exit code spec.md §6 assigns to err's kind, or 1 for
// anything that isn't a CjdkError.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce CjdkError
	if ok := asCjdkError(err, &ce); ok {
		switch ce.Kind() {
		case "ConfigError":
			return 2
		case "JdkNotFoundError":
			return 3
		case "InstallError":
			return 4
		}
	}
	return 1
}

func asCjdkError(err error, target *CjdkError) bool {
	type unwrapper interface{ Unwrap() error }
	for e := err; e != nil; {
		if ce, ok := e.(CjdkError); ok {
			*target = ce
			return true
		}
		u, ok := e.(unwrapper)
		if !ok {
			return false
		}
		e = u.Unwrap()
	}
	return false
}

// ConfigError signals invalid or contradictory configuration.
type ConfigError struct {
	Msg string
	Err error
}

func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("config error: %s", e.Msg)
}
func (e *ConfigError) Unwrap() error { return e.Err }
func (e *ConfigError) Kind() string  { return "ConfigError" }

// JdkNotFoundError signals that no vendor or no version matched.
type JdkNotFoundError struct {
	Vendor, Expr, OS, Arch string
}

func (e *JdkNotFoundError) Error() string {
	return fmt.Sprintf("no JDK found for vendor=%s version=%s os=%s arch=%s", e.Vendor, e.Expr, e.OS, e.Arch)
}
func (e *JdkNotFoundError) Kind() string { return "JdkNotFoundError" }

// InstallError signals a download, verification, extraction or filesystem
// failure during install.
type InstallError struct {
	Msg string
	Err error
}

func NewInstallError(err error, format string, args ...interface{}) *InstallError {
	return &InstallError{Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("install error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("install error: %s", e.Msg)
}
func (e *InstallError) Unwrap() error { return e.Err }
func (e *InstallError) Kind() string  { return "InstallError" }
