// Package relay is the module's facade: it bundles the data-item factory,
// the CBOR/JSON stream codecs, and the schema engine behind one import, per
// spec.md §6.4's "Public API Surface". It carries no logic of its own.
package relay

import (
	"io"

	"github.com/relaycore/dataitem/cbor"
	"github.com/relaycore/dataitem/dataitem"
	"github.com/relaycore/dataitem/djson"
	"github.com/relaycore/dataitem/schema"
	"github.com/relaycore/dataitem/schema/sink"
)

// Factory re-exports dataitem.Factory, the natural owner of the Item
// construction invariants (Simple-value domain, Base64 byte-string
// decoding, duplicate-key rejection).
func Factory() dataitem.Factory { return dataitem.NewFactory() }

// Streamer bundles the byte-stream CBOR codec and the character-stream JSON
// codec behind one value, per spec.md §6.4.
type Streamer struct{}

// NewStreamer returns a ready-to-use Streamer. Streamer holds no state.
func NewStreamer() Streamer { return Streamer{} }

// DecodeCbor reads one data item from r.
func (Streamer) DecodeCbor(r io.Reader) (*dataitem.Item, error) {
	return cbor.NewDecoder(r).Decode()
}

// EncodeCbor writes it to w.
func (Streamer) EncodeCbor(w io.Writer, it *dataitem.Item) error {
	return cbor.NewEncoder(w).Encode(it)
}

// DecodeJSON reads one data item from r.
func (Streamer) DecodeJSON(r io.Reader) (*dataitem.Item, error) {
	return djson.NewDecoder(r).Decode()
}

// EncodeJSON writes it to w, pretty-printed when pretty is true.
func (Streamer) EncodeJSON(w io.Writer, it *dataitem.Item, pretty bool) error {
	return djson.NewEncoder(w).Encode(it, pretty)
}

// NewDefinition builds a schema.Definition from a document item, itself
// produced by either DecodeCbor or DecodeJSON — getSchemaDefinition(item,
// logger) in spec.md §6.4's vocabulary.
func NewDefinition(item *dataitem.Item, warnings schema.WarningSink) (*schema.Definition, error) {
	return schema.NewBuilder().Build(item, warnings)
}

// NewDefaultDefinition is NewDefinition with validation warnings routed
// through schema/sink's log/slog-backed WarningSink instead of suppressed,
// the ambient-logging default callers reach for when they don't need a
// sink of their own.
func NewDefaultDefinition(item *dataitem.Item) (*schema.Definition, error) {
	return NewDefinition(item, sink.NewLogWarningSink(nil))
}
