package jsontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scannerFixture = `Track {
	"$id": "1",
	"name": "loop",
	"points": [
		Point {
			"x": 0,
			"y": 0
		},
		Point {
			"x": 3,
			"y": 4
		}
	],
	"next": Track {
		"$ref": "1"
	}
}`

func TestScan_Structure(t *testing.T) {
	node, err := ScanString(scannerFixture)
	require.NoError(t, err)

	assert.Equal(t, KindObject, node.Kind)
	assert.Equal(t, "Track", node.TypeName)
	assert.Equal(t, "1", node.ID)
	require.Len(t, node.Properties, 3)

	name := node.Properties[0]
	assert.Equal(t, "name", name.Name)
	assert.Equal(t, KindPrimitive, name.Value.Kind)
	assert.Equal(t, "loop", name.Value.Text)
	assert.True(t, name.Value.Quoted)

	points := node.Properties[1]
	assert.Equal(t, "points", points.Name)
	assert.Equal(t, KindCollection, points.Value.Kind)
	require.Len(t, points.Value.Elements, 2)
	assert.Equal(t, "Point", points.Value.Elements[0].TypeName)

	next := node.Properties[2]
	assert.Equal(t, "next", next.Name)
	assert.Equal(t, KindObject, next.Value.Kind)
	assert.Equal(t, "1", next.Value.Ref)
	assert.Empty(t, next.Value.Properties)
}

func TestScan_NullAndBareTokens(t *testing.T) {
	node, err := ScanString(`Box {"inner": NULL, "flag": true}`)
	require.NoError(t, err)
	require.Len(t, node.Properties, 2)
	assert.Equal(t, KindNull, node.Properties[0].Value.Kind)
	assert.Equal(t, KindPrimitive, node.Properties[1].Value.Kind)
	assert.Equal(t, "true", node.Properties[1].Value.Text)
}

func TestScan_Malformed(t *testing.T) {
	cases := []string{
		"",
		"Track {",
		`Track {"name": }`,
		"[1, 2",
		`"unterminated`,
	}
	for _, in := range cases {
		_, err := ScanString(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	node, err := ScanString(scannerFixture)
	require.NoError(t, err)

	out, err := node.RenderString(true)
	require.NoError(t, err)
	assert.Equal(t, scannerFixture, out)
}

func TestRender_CompactThenPretty(t *testing.T) {
	node, err := ScanString(scannerFixture)
	require.NoError(t, err)

	compact, err := node.RenderString(false)
	require.NoError(t, err)
	assert.NotContains(t, compact, "\n")

	reparsed, err := ScanString(compact)
	require.NoError(t, err)
	pretty, err := reparsed.RenderString(true)
	require.NoError(t, err)
	assert.Equal(t, scannerFixture, pretty)
}

func TestWalk_VisitsEveryNode(t *testing.T) {
	node, err := ScanString(scannerFixture)
	require.NoError(t, err)

	objects := 0
	node.Walk(func(n *Node) error {
		if n.Kind == KindObject {
			objects++
		}
		return nil
	})
	assert.Equal(t, 4, objects)
}
