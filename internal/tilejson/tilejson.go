package tilejson

import (
	"encoding/json"
	"os"
	"path"

	"github.com/paulmach/orb"
)

// TileJSON represents a tile.json
type TileJSON struct {
	TileJSON    string    `json:"tilejson"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Scheme      string    `json:"scheme"`
	Format      string    `json:"format,omitempty"`
	Tiles       []string  `json:"tiles,omitempty"`
	Minzoom     uint8     `json:"minzoom"`
	Maxzoom     uint8     `json:"maxzoom"`
	Bounds      []float64 `json:"bounds,omitempty"`
	Center      []float64 `json:"center,omitempty"`
	Legend      *Legend   `json:"legend,omitempty"`
}

// Legend maps the colour range of the overlay back to sample values.
type Legend struct {
	Colormap string  `json:"colormap"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// New returns a tile.json for an xyz pyramid of png tiles.
func New(name, description string, maxLod uint8) TileJSON {
	return TileJSON{
		TileJSON:    "2.2.0",
		Name:        name,
		Description: description,
		Scheme:      "xyz",
		Format:      "png",
		Tiles:       []string{"{z}/{x}/{y}.png"},
		Minzoom:     0,
		Maxzoom:     maxLod,
	}
}

// WithBound sets bounds and center from b ([west, south, east, north]).
func (t TileJSON) WithBound(b orb.Bound) TileJSON {
	c := b.Center()
	t.Bounds = []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
	t.Center = []float64{c[0], c[1], 0}
	return t
}

// Write writes obj as tile.json into outputDirectory.
func Write(outputDirectory string, obj TileJSON) error {
	bytes, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path.Join(outputDirectory, "tile.json"), bytes, 0o644)
}

// Read reads the tile.json in directory.
func Read(directory string) (TileJSON, error) {
	var obj TileJSON

	bytes, err := os.ReadFile(path.Join(directory, "tile.json"))
	if err != nil {
		return obj, err
	}

	err = json.Unmarshal(bytes, &obj)
	return obj, err
}
