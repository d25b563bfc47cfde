// Package errors provides the error taxonomy shared by the completion client,
// the ingestion pipeline and the Zeebe workers.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConnectivity   ErrorCode = "CONNECTIVITY_ERROR"
	ErrCodeUpstream       ErrorCode = "UPSTREAM_ERROR"
	ErrCodeParse          ErrorCode = "PARSE_ERROR"
	ErrCodeNormalization  ErrorCode = "NORMALIZATION_ERROR"
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. A *StandardError matches the sentinel of its code.
var (
	ErrConnectivity   = errors.New(string(ErrCodeConnectivity))
	ErrUpstream       = errors.New(string(ErrCodeUpstream))
	ErrParse          = errors.New(string(ErrCodeParse))
	ErrNormalization  = errors.New(string(ErrCodeNormalization))
	ErrInvalidRequest = errors.New(string(ErrCodeInvalidRequest))
)

// User-facing messages.
const (
	MsgOffline         = "Unable to reach the AI service. Check your internet connection and try again."
	MsgUpstreamDefault = "The AI service could not complete the request. Please try again later."
	MsgParse           = "The AI response could not be understood. Please try again."
)

var sentinels = map[ErrorCode]error{
	ErrCodeConnectivity:   ErrConnectivity,
	ErrCodeUpstream:       ErrUpstream,
	ErrCodeParse:          ErrParse,
	ErrCodeNormalization:  ErrNormalization,
	ErrCodeInvalidRequest: ErrInvalidRequest,
}

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is lets errors.Is match the code sentinel.
func (e *StandardError) Is(target error) bool {
	if s, ok := sentinels[e.Code]; ok && s == target {
		return true
	}
	if t, ok := target.(*StandardError); ok {
		return t.Code == e.Code
	}
	return false
}

func (e *StandardError) Unwrap() error { return e.cause }

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewConnectivityError reports that no response could be obtained at all.
func NewConnectivityError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConnectivity,
		Message:   MsgOffline,
		Details:   detailsOf(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUpstreamError reports a response from the completion service that indicated failure.
// An empty message falls back to MsgUpstreamDefault.
func NewUpstreamError(statusCode int, message string) *StandardError {
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = MsgUpstreamDefault
	}
	return &StandardError{
		Code:       ErrCodeUpstream,
		Message:    msg,
		Details:    fmt.Sprintf("status: %d", statusCode),
		Retryable:  statusCode == 429 || statusCode >= 500,
		StatusCode: statusCode,
		Timestamp:  time.Now().UTC(),
	}
}

// NewParseError reports that neither the primary response nor the repair produced JSON.
func NewParseError(feature string) *StandardError {
	return &StandardError{
		Code:      ErrCodeParse,
		Message:   MsgParse,
		Details:   fmt.Sprintf("feature: %s", feature),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNormalizationError reports that a parsed object could not be turned into a usable result.
func NewNormalizationError(kind, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNormalization,
		Message:   fmt.Sprintf("The AI response did not contain a usable %s.", kind),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError rejects caller input before any network call is made.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// AsStandard returns the *StandardError inside err, if any.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code of err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// ==========================
// 4. BPMN Mapping
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeConnectivity:   "AI_SERVICE_UNREACHABLE",
	ErrCodeUpstream:       "AI_SERVICE_REJECTED",
	ErrCodeParse:          "AI_RESPONSE_UNPARSABLE",
	ErrCodeNormalization:  "AI_RESPONSE_INCOMPLETE",
	ErrCodeInvalidRequest: "INVALID_REQUEST",
}

// GetRetryCount decides how many engine-level retries a code earns. The pipeline itself
// never retries; only the workflow engine may re-run a job.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeConnectivity:
		return 3
	case ErrCodeUpstream:
		return 1
	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeConnectivity:
		return "OFFLINE"
	case ErrCodeUpstream:
		return "UPSTREAM"
	case ErrCodeParse, ErrCodeNormalization:
		return "AI_OUTPUT"
	case ErrCodeInvalidRequest:
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
