package dto

import "strconv"

// Envelope is the uniform response body of every endpoint.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// NewEnvelope builds an envelope; nil data is rendered as an empty string.
func NewEnvelope(status int, message string, data any) Envelope {
	if data == nil {
		data = ""
	}
	return Envelope{Code: strconv.Itoa(status), Message: message, Data: data}
}
