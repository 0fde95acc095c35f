// Package stormcodec gathers the codecs that can be used to store notes with Storm.
package stormcodec

import (
	"bytes"
	"sort"

	"github.com/asdine/storm/v3/codec"
	"github.com/asdine/storm/v3/codec/json"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/pkg/errors"
	ugorji "github.com/ugorji/go/codec"
)

// Default is the codec name used when none is configured.
const Default = "msgpack"

// CBOR encodes to and decodes from CBOR (Concise Binary Object Representation).
// http://cbor.io/
// https://tools.ietf.org/html/rfc7049
var CBOR codec.MarshalUnmarshaler = &handleCodec{name: "cbor", handle: &ugorji.CborHandle{}}

// Binc encodes to and decodes from Binc.
// See https://github.com/ugorji/binc
var Binc codec.MarshalUnmarshaler = &handleCodec{name: "binc", handle: &ugorji.BincHandle{}}

var registry = map[string]codec.MarshalUnmarshaler{
	"msgpack": msgpack.Codec,
	"json":    json.Codec,
	"cbor":    CBOR,
	"binc":    Binc,
}

// Lookup returns the codec registered with the given name.
// An empty name returns the Default codec.
func Lookup(name string) (codec.MarshalUnmarshaler, error) {
	if name == "" {
		name = Default
	}

	c, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unsupported codec: %s", name)
	}
	return c, nil
}

// Names returns the registered codec names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type handleCodec struct {
	name   string
	handle ugorji.Handle
}

func (c *handleCodec) Marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := ugorji.NewEncoder(&b, c.handle)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *handleCodec) Unmarshal(b []byte, v any) error {
	dec := ugorji.NewDecoderBytes(b, c.handle)
	return dec.Decode(v)
}

func (c *handleCodec) Name() string {
	return c.name
}
