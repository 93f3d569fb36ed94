package message

import (
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackConverter handles application/msgpack payloads. It is not part of
// the default chain; hosts that want binary payloads register it explicitly,
// which places it ahead of the JSON fallback.
type MsgpackConverter struct{}

// NewMsgpack builds the msgpack converter.
func NewMsgpack() *MsgpackConverter {
	return &MsgpackConverter{}
}

func (m *MsgpackConverter) CanRead(contentType string, _ reflect.Type) bool {
	return mediaTypeMatches(contentType, ContentTypeMsgpack)
}

func (m *MsgpackConverter) Read(msg *Message, target any) error {
	if err := msgpack.Unmarshal(msg.Payload, target); err != nil {
		return fmt.Errorf("msgpack converter: %w", err)
	}
	return nil
}

func (m *MsgpackConverter) CanWrite(accept string, _ any) bool {
	return mediaTypeMatches(accept, ContentTypeMsgpack)
}

func (m *MsgpackConverter) Write(v any, headers map[string]string) (*Message, error) {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("msgpack converter: %w", err)
	}
	return New(payload, withContentType(headers, ContentTypeMsgpack)), nil
}
