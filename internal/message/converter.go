package message

import "reflect"

// Converter is a strategy for reading a payload into a Go value and writing
// a Go value back out as a payload.
type Converter interface {
	// CanRead reports whether this converter can populate a value of type
	// target from a payload carrying the given content type. An empty
	// content type means the sender declared nothing.
	CanRead(contentType string, target reflect.Type) bool

	// Read decodes the message payload into target, which must be a non-nil
	// pointer.
	Read(m *Message, target any) error

	// CanWrite reports whether this converter can serialize v for the given
	// accepted content type. An empty accept means the caller takes anything.
	CanWrite(accept string, v any) bool

	// Write serializes v into a new message, setting Content-Type and
	// carrying over the supplied headers.
	Write(v any, headers map[string]string) (*Message, error)
}

// mediaTypeMatches reports whether a declared content type matches a
// converter's media type, ignoring parameters such as charset.
func mediaTypeMatches(declared, mediaType string) bool {
	if declared == mediaType {
		return true
	}
	return len(declared) > len(mediaType) &&
		declared[:len(mediaType)] == mediaType &&
		declared[len(mediaType)] == ';'
}

// withContentType copies headers and forces the Content-Type, dropping any
// Accept header so it does not leak into downstream stages.
func withContentType(headers map[string]string, contentType string) map[string]string {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		if k == AcceptHeader {
			continue
		}
		out[k] = v
	}
	out[ContentTypeHeader] = contentType
	return out
}
