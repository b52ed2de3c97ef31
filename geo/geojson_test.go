package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Square"},
     "geometry": {"type": "Polygon", "coordinates": [[[-1,-1],[1,-1],[1,1],[-1,1],[-1,-1]]]}},
    {"type": "Feature", "properties": {"name": "Broken"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1],"x",[2,null],[3,3,3],[4,4],[5,5]]]}},
    {"type": "Feature", "properties": {"name": "Pair"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
        [[[10,10],[11,10],[11,11]]],
        [[[20,20],[21,20],[21,21]], [[20.2,20.2],[20.4,20.2],[20.4,20.4]]]
     ]}},
    {"type": "Feature", "properties": {"name": "Point"},
     "geometry": {"type": "Point", "coordinates": [0,0]}},
    {"type": "Feature", "properties": {"name": "Nothing"}, "geometry": null}
  ]
}`

func TestLoadFeatureCollection(t *testing.T) {
	regions, err := LoadFeatureCollection([]byte(sampleCollection))
	require.NoError(t, err)
	require.Len(t, regions, 3)

	assert.Equal(t, "Square", regions[0].Name)
	assert.Equal(t, KindPolygon, regions[0].Kind)
	assert.Len(t, regions[0].Polygons[0][0], 5)

	// malformed vertices are dropped, the rest of the ring survives
	assert.Equal(t, Ring{{0, 0}, {4, 4}, {5, 5}}, regions[1].Polygons[0][0])

	assert.Equal(t, KindMultiPolygon, regions[2].Kind)
	require.Len(t, regions[2].Polygons, 2)
	assert.Len(t, regions[2].Polygons[1], 2)
	assert.Len(t, regions[2].Outer(), 2)
}

func TestLoadFeatureCollectionRejectsOtherDocuments(t *testing.T) {
	_, err := LoadFeatureCollection([]byte(`{"type": "Feature", "features": []}`))
	assert.Error(t, err)

	_, err = LoadFeatureCollection([]byte(`{"type": "FeatureCollection"}`))
	assert.Error(t, err)

	_, err = LoadFeatureCollection([]byte(`not json`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.geo.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCollection), 0o644))

	regions, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, regions, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
