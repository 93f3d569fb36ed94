package message

import (
	"fmt"
	"reflect"
)

// StringConverter treats the payload as UTF-8 text. It is the tail of the
// default fallback chain.
type StringConverter struct{}

// NewString builds the text converter.
func NewString() *StringConverter {
	return &StringConverter{}
}

func (s *StringConverter) CanRead(_ string, target reflect.Type) bool {
	return target.Kind() == reflect.String
}

func (s *StringConverter) Read(m *Message, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.String {
		return fmt.Errorf("string converter: target must be a non-nil *string, got %T", target)
	}
	v.Elem().SetString(string(m.Payload))
	return nil
}

func (s *StringConverter) CanWrite(accept string, v any) bool {
	if reflect.ValueOf(v).Kind() != reflect.String {
		return false
	}
	return accept == "" || mediaTypeMatches(accept, ContentTypeText)
}

func (s *StringConverter) Write(v any, headers map[string]string) (*Message, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return nil, fmt.Errorf("string converter: value must be a string, got %T", v)
	}
	return New([]byte(rv.String()), withContentType(headers, ContentTypeText)), nil
}
