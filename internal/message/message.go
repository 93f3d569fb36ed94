// Package message defines the payload envelope passed to and from functions,
// and the converter chain that maps payload bytes onto the Go types function
// handlers declare.
//
// Converters are prioritized: a chain tries each converter in order and the
// first one that supports the combination of content type and Go type wins.
// The default chain ends with a JSON, byte-array and string converter, so a
// handler always has a fallback regardless of what the caller registered.
package message

// Well-known header names. Headers are flat strings, matching what an HTTP
// or messaging ingress can carry without transformation.
const (
	ContentTypeHeader = "Content-Type"
	AcceptHeader      = "Accept"

	// FunctionNameHeader addresses a specific function when a message goes
	// through the router instead of a direct lookup.
	FunctionNameHeader = "X-Function-Name"
)

// Content types the built-in converters negotiate on.
const (
	ContentTypeJSON    = "application/json"
	ContentTypeBytes   = "application/octet-stream"
	ContentTypeText    = "text/plain"
	ContentTypeMsgpack = "application/msgpack"
)

// Message is an immutable-by-convention payload envelope. Converters never
// mutate a message they were handed; they build new ones.
type Message struct {
	Payload []byte
	Headers map[string]string
}

// New builds a message. The headers map is copied so callers can reuse theirs.
func New(payload []byte, headers map[string]string) *Message {
	m := &Message{Payload: payload, Headers: make(map[string]string, len(headers))}
	for k, v := range headers {
		m.Headers[k] = v
	}
	return m
}

// Header returns the value for a header name, or "" when absent.
func (m *Message) Header(name string) string {
	if m.Headers == nil {
		return ""
	}
	return m.Headers[name]
}

// ContentType returns the Content-Type header, or "" when the sender did not
// declare one.
func (m *Message) ContentType() string {
	return m.Header(ContentTypeHeader)
}

// Accept returns the Accept header, or "" when the sender takes anything.
func (m *Message) Accept() string {
	return m.Header(AcceptHeader)
}
