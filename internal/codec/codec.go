// Package codec abstracts the JSON mapper used by the message converter
// chain. Two implementations ship in the binary: the standard library
// encoding/json mapper and a json-iterator based one. Which of the two (or
// which caller-registered extra) serves the process is decided exactly once,
// at startup, from the preferred_json_codec property.
package codec

// Codec marshals and unmarshals JSON payloads.
type Codec interface {
	// Name is the identifier the preferred_json_codec property selects by.
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
