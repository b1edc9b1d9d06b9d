/*
Package response uniform HTTP envelopes

Status codes are mapped here and nowhere else. Internal errors never reach the
client; their real message and stack only go to the log. Every body carries the
request id so a client report can be matched to a log line.

	success: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	failure: { success: false, error: "ERROR_CODE", message: "...", field: "...", details: {...}, code: 4xx/5xx, request_id: "..." }
*/
package response

// RequestIDKey gin context key holding the request id
const RequestIDKey = "request_id"

// Response envelope for every JSON answer
type Response struct {
	Success   bool           `json:"success"`
	Data      interface{}    `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"` // error code, never the raw error
	Field     string         `json:"field,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
}
