// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resilience provides retry with exponential backoff and a circuit
// breaker, used to guard calls to the external entity-recognition service.
package resilience

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrorType groups errors by how they should be handled.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeTransient
	ErrorTypePermanent
	ErrorTypeTimeout
	ErrorTypeRateLimit
	ErrorTypeServiceUnavailable
	ErrorTypeInvalidInput
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeUnknown:
		return "Unknown"
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypePermanent:
		return "Permanent"
	case ErrorTypeTimeout:
		return "Timeout"
	case ErrorTypeRateLimit:
		return "RateLimit"
	case ErrorTypeServiceUnavailable:
		return "ServiceUnavailable"
	case ErrorTypeInvalidInput:
		return "InvalidInput"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
}

// ClassifiedError wraps an error with handling information.
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried.
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// ClassifyError categorizes an error for retry and circuit-breaker decisions.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if isNetworkError(err) {
		return &ClassifiedError{Original: err, Type: ErrorTypeTransient, Retryable: true,
			Message: fmt.Sprintf("network error: %v", err)}
	}
	if isTimeoutError(err) {
		return &ClassifiedError{Original: err, Type: ErrorTypeTimeout, Retryable: true,
			Message: fmt.Sprintf("timeout: %v", err)}
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "too many requests") || strings.Contains(errStr, "rate limit"):
		return &ClassifiedError{Original: err, Type: ErrorTypeRateLimit, Retryable: true,
			Message: fmt.Sprintf("rate limited: %v", err)}
	case strings.Contains(errStr, "service unavailable") || strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "bad gateway"):
		return &ClassifiedError{Original: err, Type: ErrorTypeServiceUnavailable, Retryable: true,
			Message: fmt.Sprintf("service unavailable: %v", err)}
	case strings.Contains(errStr, "bad request") || strings.Contains(errStr, "malformed"):
		return &ClassifiedError{Original: err, Type: ErrorTypeInvalidInput, Retryable: false,
			Message: fmt.Sprintf("invalid input: %v", err)}
	}

	return &ClassifiedError{Original: err, Type: ErrorTypeUnknown, Retryable: false,
		Message: fmt.Sprintf("unknown error: %v", err)}
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// NewTransientError creates a retryable classified error.
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{Original: cause, Type: ErrorTypeTransient, Message: message, Retryable: true}
}

// NewPermanentError creates a non-retryable classified error.
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{Original: cause, Type: ErrorTypePermanent, Message: message, Retryable: false}
}
