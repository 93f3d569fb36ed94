package message

import (
	"fmt"
	"reflect"

	"github.com/vk/funcgrid/internal/codec"
)

// JSONConverter maps payloads to and from Go values through the process's
// selected JSON codec. It is the head of the default fallback chain: it also
// accepts messages with no declared content type, so untyped senders get
// JSON semantics for struct-shaped targets.
type JSONConverter struct {
	codec codec.Codec
}

// NewJSON builds a JSONConverter on top of the given codec.
func NewJSON(c codec.Codec) *JSONConverter {
	return &JSONConverter{codec: c}
}

func (j *JSONConverter) CanRead(contentType string, target reflect.Type) bool {
	if contentType != "" && !mediaTypeMatches(contentType, ContentTypeJSON) {
		return false
	}
	// Raw byte targets belong to the byte-array converter; claiming them
	// here would force payloads to be valid JSON.
	if target == reflect.TypeOf([]byte(nil)) {
		return false
	}
	// String targets likewise fall through to the string converter unless
	// the sender explicitly declared JSON.
	if target.Kind() == reflect.String {
		return contentType != ""
	}
	return true
}

func (j *JSONConverter) Read(m *Message, target any) error {
	if err := j.codec.Unmarshal(m.Payload, target); err != nil {
		return fmt.Errorf("json converter (%s): %w", j.codec.Name(), err)
	}
	return nil
}

func (j *JSONConverter) CanWrite(accept string, v any) bool {
	if accept != "" && !mediaTypeMatches(accept, ContentTypeJSON) {
		return false
	}
	switch v.(type) {
	case []byte, string:
		// Leave raw bytes and plain strings to the dedicated converters
		// unless the caller explicitly asked for JSON.
		return accept != ""
	}
	return true
}

func (j *JSONConverter) Write(v any, headers map[string]string) (*Message, error) {
	payload, err := j.codec.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json converter (%s): %w", j.codec.Name(), err)
	}
	return New(payload, withContentType(headers, ContentTypeJSON)), nil
}
