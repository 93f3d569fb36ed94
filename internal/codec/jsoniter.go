package codec

import jsoniter "github.com/json-iterator/go"

// JSONIterName identifies the json-iterator mapper.
const JSONIterName = "jsoniter"

type jsoniterCodec struct {
	api jsoniter.API
}

// NewJSONIter returns a Codec backed by json-iterator in its
// encoding/json-compatible configuration.
func NewJSONIter() Codec {
	return jsoniterCodec{api: jsoniter.ConfigCompatibleWithStandardLibrary}
}

func (jsoniterCodec) Name() string { return JSONIterName }

func (c jsoniterCodec) Marshal(v any) ([]byte, error) {
	return c.api.Marshal(v)
}

func (c jsoniterCodec) Unmarshal(data []byte, v any) error {
	return c.api.Unmarshal(data, v)
}
