// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldService   = "service"
	FieldVersion   = "version"
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"

	// Configuration fields
	FieldPath        = "path"
	FieldSource      = "source"
	FieldField       = "field"
	FieldBaseURL     = "base_url"
	FieldFingerprint = "fingerprint"

	// HTTP fields
	FieldMethod     = "method"
	FieldRoute      = "route"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"
)
