package codec

import "encoding/json"

// StdlibName identifies the default encoding/json mapper.
const StdlibName = "stdlib"

type stdlibCodec struct{}

// NewStdlib returns the default Codec backed by encoding/json.
func NewStdlib() Codec {
	return stdlibCodec{}
}

func (stdlibCodec) Name() string { return StdlibName }

func (stdlibCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (stdlibCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
