package message

import (
	"fmt"
	"reflect"
)

// ByteArrayConverter passes payload bytes through untouched. It accepts any
// content type as long as the Go side wants raw bytes.
type ByteArrayConverter struct{}

// NewByteArray builds the pass-through byte converter.
func NewByteArray() *ByteArrayConverter {
	return &ByteArrayConverter{}
}

func (b *ByteArrayConverter) CanRead(_ string, target reflect.Type) bool {
	return target == reflect.TypeOf([]byte(nil))
}

func (b *ByteArrayConverter) Read(m *Message, target any) error {
	ptr, ok := target.(*[]byte)
	if !ok {
		return fmt.Errorf("byte-array converter: target must be *[]byte, got %T", target)
	}
	buf := make([]byte, len(m.Payload))
	copy(buf, m.Payload)
	*ptr = buf
	return nil
}

func (b *ByteArrayConverter) CanWrite(accept string, v any) bool {
	if _, ok := v.([]byte); !ok {
		return false
	}
	return accept == "" || mediaTypeMatches(accept, ContentTypeBytes)
}

func (b *ByteArrayConverter) Write(v any, headers map[string]string) (*Message, error) {
	payload, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("byte-array converter: value must be []byte, got %T", v)
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return New(buf, withContentType(headers, ContentTypeBytes)), nil
}
