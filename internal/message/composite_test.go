package message

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/funcgrid/internal/codec"
)

type greeting struct {
	Name string `json:"name"`
}

func defaultChain(t *testing.T) *Composite {
	t.Helper()
	c, err := codec.Select("")
	require.NoError(t, err)
	return NewChain(c)
}

func TestChain_JSONRoundTrip(t *testing.T) {
	chain := defaultChain(t)

	in := New([]byte(`{"name":"world"}`), map[string]string{ContentTypeHeader: ContentTypeJSON})
	var got greeting
	require.NoError(t, chain.Read(in, &got))
	assert.Equal(t, "world", got.Name)

	out, err := chain.Write(greeting{Name: "world"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, out.ContentType())
	assert.JSONEq(t, `{"name":"world"}`, string(out.Payload))
}

// A message with no declared content type still decodes into a struct
// target: the JSON converter is the head of the fallback chain.
func TestChain_MissingContentTypeFallsBackToJSON(t *testing.T) {
	chain := defaultChain(t)

	in := New([]byte(`{"name":"untyped"}`), nil)
	var got greeting
	require.NoError(t, chain.Read(in, &got))
	assert.Equal(t, "untyped", got.Name)
}

func TestChain_ByteTargetBypassesJSON(t *testing.T) {
	chain := defaultChain(t)

	// Not valid JSON; a []byte target must get the raw payload regardless.
	in := New([]byte{0x00, 0x01, 0xff}, map[string]string{ContentTypeHeader: ContentTypeBytes})
	var got []byte
	require.NoError(t, chain.Read(in, &got))
	assert.Equal(t, []byte{0x00, 0x01, 0xff}, got)

	out, err := chain.Write(got, nil)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeBytes, out.ContentType())
}

func TestChain_StringRoundTrip(t *testing.T) {
	chain := defaultChain(t)

	in := New([]byte("hello"), map[string]string{ContentTypeHeader: ContentTypeText})
	var got string
	require.NoError(t, chain.Read(in, &got))
	assert.Equal(t, "hello", got)

	out, err := chain.Write("hello", nil)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeText, out.ContentType())
	assert.Equal(t, "hello", string(out.Payload))
}

// A text payload with no declared content type must reach the string
// converter; the JSON converter only claims string targets when the sender
// explicitly declared JSON.
func TestChain_MissingContentTypeStringFallsThrough(t *testing.T) {
	chain := defaultChain(t)

	var s string
	require.NoError(t, chain.Read(New([]byte("still text"), nil), &s))
	assert.Equal(t, "still text", s)
}

func TestChain_ExplicitJSONReadIntoString(t *testing.T) {
	chain := defaultChain(t)

	in := New([]byte(`"quoted"`), map[string]string{ContentTypeHeader: ContentTypeJSON})
	var s string
	require.NoError(t, chain.Read(in, &s))
	assert.Equal(t, "quoted", s)
}

func TestChain_ExplicitJSONAcceptForString(t *testing.T) {
	chain := defaultChain(t)

	out, err := chain.Write("hello", map[string]string{AcceptHeader: ContentTypeJSON})
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, out.ContentType())
	assert.Equal(t, `"hello"`, string(out.Payload))
}

func TestChain_ContentTypeParametersIgnored(t *testing.T) {
	chain := defaultChain(t)

	in := New([]byte(`{"name":"charset"}`), map[string]string{
		ContentTypeHeader: "application/json; charset=utf-8",
	})
	var got greeting
	require.NoError(t, chain.Read(in, &got))
	assert.Equal(t, "charset", got.Name)
}

func TestChain_UnsupportedReadNamesContentType(t *testing.T) {
	chain := defaultChain(t)

	in := New([]byte("x"), map[string]string{ContentTypeHeader: "application/xml"})
	var got greeting
	err := chain.Read(in, &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application/xml")
}

func TestChain_SuppliedConverterWinsNegotiation(t *testing.T) {
	c, err := codec.Select("")
	require.NoError(t, err)
	chain := NewChain(c, NewMsgpack())

	out, err := chain.Write(greeting{Name: "packed"}, map[string]string{AcceptHeader: ContentTypeMsgpack})
	require.NoError(t, err)
	assert.Equal(t, ContentTypeMsgpack, out.ContentType())

	var got greeting
	require.NoError(t, chain.Read(out, &got))
	assert.Equal(t, "packed", got.Name)

	// Defaults are still appended after a non-composite supplied converter.
	var s string
	require.NoError(t, chain.Read(New([]byte("still text"), nil), &s))
	assert.Equal(t, "still text", s)
}

func TestChain_SuppliedCompositeReplacesDefaults(t *testing.T) {
	c, err := codec.Select("")
	require.NoError(t, err)
	chain := NewChain(c, NewComposite(NewString()))

	// Only the string converter is present: struct targets are unsupported.
	var got greeting
	err = chain.Read(New([]byte(`{"name":"x"}`), nil), &got)
	require.Error(t, err)

	var s string
	require.NoError(t, chain.Read(New([]byte("only strings"), nil), &s))
	assert.Equal(t, "only strings", s)
}

func TestChain_WriteDropsAcceptHeader(t *testing.T) {
	chain := defaultChain(t)

	out, err := chain.Write(greeting{Name: "x"}, map[string]string{
		AcceptHeader:       ContentTypeJSON,
		FunctionNameHeader: "greeter",
	})
	require.NoError(t, err)
	assert.Empty(t, out.Header(AcceptHeader))
	assert.Equal(t, "greeter", out.Header(FunctionNameHeader))
}

func TestComposite_IsAConverter(t *testing.T) {
	var _ Converter = NewComposite()
}

func TestComposite_CanReadReflectsMembers(t *testing.T) {
	chain := NewComposite(NewByteArray())
	assert.True(t, chain.CanRead("anything/at-all", reflect.TypeOf([]byte(nil))))
	assert.False(t, chain.CanRead("", reflect.TypeOf("")))
}

func TestMessage_HeadersAreCopied(t *testing.T) {
	headers := map[string]string{ContentTypeHeader: ContentTypeText}
	m := New([]byte("x"), headers)
	headers[ContentTypeHeader] = "mutated"
	assert.Equal(t, ContentTypeText, m.ContentType())
}
