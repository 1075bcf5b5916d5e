package relay

import (
	"bytes"
	"testing"

	"github.com/relaycore/dataitem/dataitem"
	"github.com/stretchr/testify/require"
)

// schemaDocument builds the same schema document item independently of
// either wire codec, so both legs of the round-trip below start from an
// identical in-memory tree.
func schemaDocument() *dataitem.Item {
	f := Factory()

	point := f.NamedMap()
	_ = dataitem.SetProperty(point, "type", f.TextString("object"))
	props := f.NamedMap()
	x := f.NamedMap()
	_ = dataitem.SetProperty(x, "type", f.TextString("integer"))
	y := f.NamedMap()
	_ = dataitem.SetProperty(y, "type", f.TextString("integer"))
	_ = dataitem.SetProperty(y, "optional", f.Boolean(true))
	_ = dataitem.SetProperty(props, "x", x)
	_ = dataitem.SetProperty(props, "y", y)
	_ = dataitem.SetProperty(point, "properties", props)

	root := f.NamedMap()
	_ = dataitem.SetProperty(root, "title", f.TextString("point schema"))
	_ = dataitem.SetProperty(root, "root", point)
	return root
}

// TestSchemaDocumentRoundTripsIdenticallyThroughEitherCodec builds the same
// schema document via CBOR and via JSON and asserts the two resulting
// Definitions behave identically — the wire format a schema document
// arrived over must not affect what it means.
func TestSchemaDocumentRoundTripsIdenticallyThroughEitherCodec(t *testing.T) {
	doc := schemaDocument()
	streamer := NewStreamer()

	var cborBuf bytes.Buffer
	require.NoError(t, streamer.EncodeCbor(&cborBuf, doc))
	viaCbor, err := streamer.DecodeCbor(&cborBuf)
	require.NoError(t, err)

	var jsonBuf bytes.Buffer
	require.NoError(t, streamer.EncodeJSON(&jsonBuf, doc, false))
	viaJSON, err := streamer.DecodeJSON(&jsonBuf)
	require.NoError(t, err)

	require.True(t, viaCbor.Equal(viaJSON))

	defFromCbor, err := NewDefinition(viaCbor, nil)
	require.NoError(t, err)
	defFromJSON, err := NewDefinition(viaJSON, nil)
	require.NoError(t, err)

	require.Equal(t, defFromCbor.Title(), defFromJSON.Title())

	f := Factory()
	valid := f.NamedMap()
	_ = dataitem.SetProperty(valid, "x", f.Integer(1))
	invalid := f.NamedMap()
	_ = dataitem.SetProperty(invalid, "x", f.TextString("not an integer"))

	require.Equal(t,
		defFromCbor.Validate(valid, false),
		defFromJSON.Validate(valid, false))
	require.Equal(t,
		defFromCbor.Validate(invalid, false),
		defFromJSON.Validate(invalid, false))
	require.True(t, defFromCbor.CreateDefault(true).Equal(defFromJSON.CreateDefault(true)))
}

// TestNewDefaultDefinitionRoutesWarningsThroughLogSlog exercises the
// ambient-logging wiring: an unrecognized property against a final object
// raises a warning through the default log/slog-backed sink, and the
// validation still fails. The log output itself is not captured here; the
// sink package's own tests check what LogWarningSink records.
func TestNewDefaultDefinitionRoutesWarningsThroughLogSlog(t *testing.T) {
	f := Factory()
	props := f.NamedMap()
	x := f.NamedMap()
	_ = dataitem.SetProperty(x, "type", f.TextString("integer"))
	_ = dataitem.SetProperty(props, "x", x)

	point := f.NamedMap()
	_ = dataitem.SetProperty(point, "type", f.TextString("object"))
	_ = dataitem.SetProperty(point, "final", f.Boolean(true))
	_ = dataitem.SetProperty(point, "properties", props)

	doc := f.NamedMap()
	_ = dataitem.SetProperty(doc, "title", f.TextString("final point"))
	_ = dataitem.SetProperty(doc, "root", point)

	def, err := NewDefaultDefinition(doc)
	require.NoError(t, err)

	withExtra := f.NamedMap()
	_ = dataitem.SetProperty(withExtra, "x", f.Integer(1))
	_ = dataitem.SetProperty(withExtra, "z", f.Integer(2))

	require.False(t, def.Validate(withExtra, false))
}
