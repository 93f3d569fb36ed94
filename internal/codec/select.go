package codec

import (
	"fmt"
	"strings"
)

// Select resolves the preferred_json_codec property to a concrete Codec.
// An empty preference and "stdlib" both pick the encoding/json mapper;
// "jsoniter" picks the json-iterator mapper. Any other value is honored
// when and only when a matching extra codec was registered by the caller,
// otherwise startup must abort.
func Select(preference string, extras ...Codec) (Codec, error) {
	pref := strings.ToLower(strings.TrimSpace(preference))

	for _, extra := range extras {
		if extra.Name() == pref {
			return extra, nil
		}
	}

	switch pref {
	case "", StdlibName:
		return NewStdlib(), nil
	case JSONIterName:
		return NewJSONIter(), nil
	}

	known := []string{StdlibName, JSONIterName}
	for _, extra := range extras {
		known = append(known, extra.Name())
	}
	return nil, fmt.Errorf("unknown preferred_json_codec %q (available: %s)", preference, strings.Join(known, ", "))
}
