// Package errors defines the error taxonomy shared by the vesyncd daemon and
// the pkg/vesync client library. Cloud API return codes are mapped onto these
// sentinels via the table in codes.go.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned when a requested resource doesn't exist
var ErrNotFound = errors.New("resource not found")

// ErrInvalidInput is returned when the provided input is invalid
var ErrInvalidInput = errors.New("invalid input")

// ErrDeviceUnavailable is returned when a device can't be reached or is not responding
var ErrDeviceUnavailable = errors.New("device unavailable")

// ErrAuthentication is returned when the cloud rejects credentials or a token
var ErrAuthentication = errors.New("authentication failed")

// ErrRateLimit is returned when the cloud API throttles the account
var ErrRateLimit = errors.New("rate limited")

// ErrDeviceOffline is returned when the cloud reports the device as not connected
var ErrDeviceOffline = errors.New("device offline")

// ErrServer is returned for cloud-side failures (busy, timeout, storage)
var ErrServer = errors.New("server error")

// ErrInternal is returned for unexpected internal errors
var ErrInternal = errors.New("internal error")

// LogErrorAndReturn logs an error with structured context and returns it
func LogErrorAndReturn(logger *slog.Logger, err error, message string, args ...any) error {
	// Don't modify nil errors
	if err == nil {
		return nil
	}

	logger.Error(message, append([]any{"error", err}, args...)...)
	return err
}

// WrapErrorf wraps an error with additional context using fmt.Errorf
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// IsNotFound returns true if the error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput returns true if the error is or wraps ErrInvalidInput
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDeviceUnavailable returns true if the error is or wraps ErrDeviceUnavailable
func IsDeviceUnavailable(err error) bool {
	return errors.Is(err, ErrDeviceUnavailable)
}

// IsAuthentication returns true if the error is or wraps ErrAuthentication
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsRateLimit returns true if the error is or wraps ErrRateLimit
func IsRateLimit(err error) bool {
	return errors.Is(err, ErrRateLimit)
}

// IsDeviceOffline returns true if the error is or wraps ErrDeviceOffline
func IsDeviceOffline(err error) bool {
	return errors.Is(err, ErrDeviceOffline)
}

// IsServer returns true if the error is or wraps ErrServer
func IsServer(err error) bool {
	return errors.Is(err, ErrServer)
}

// NotFoundf returns a formatted ErrNotFound error
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidInputf returns a formatted ErrInvalidInput error
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// DeviceUnavailablef returns a formatted ErrDeviceUnavailable error
func DeviceUnavailablef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrDeviceUnavailable)...)
}

// Authenticationf returns a formatted ErrAuthentication error
func Authenticationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrAuthentication)...)
}

// RateLimitf returns a formatted ErrRateLimit error
func RateLimitf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrRateLimit)...)
}

// DeviceOfflinef returns a formatted ErrDeviceOffline error
func DeviceOfflinef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrDeviceOffline)...)
}

// Serverf returns a formatted ErrServer error
func Serverf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrServer)...)
}

// Internalf returns a formatted ErrInternal error
func Internalf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInternal)...)
}
