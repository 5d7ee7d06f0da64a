package app

import (
	"github.com/philipparndt/stlvol/pkg/geometry"
	"github.com/philipparndt/stlvol/pkg/units"
)

// ModelState describes the bound model
type ModelState struct {
	name      string
	rawVolume float32 // file unit cubed
	triangles int
	bounds    geometry.BoundingBox // before centring
	maxDim    float32
	bound     bool
}

// DisplayState holds the user's unit and material choices
type DisplayState struct {
	unit    units.Unit
	density float32
}

// FileWatchState tracks the paths of the last submitted batch so they can
// be reloaded when they change on disk
type FileWatchState struct {
	paths []string
}

// Metrics is what the volume panel shows
type Metrics struct {
	Name        string
	Unit        units.Unit
	HasModel    bool
	Triangles   int
	Volume      float32 // cm³ of the bound model
	Weight      float32 // grams of the bound model
	Total       float32 // cm³ of every ready file
	TotalWeight float32
}
