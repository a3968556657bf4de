// Package shaders provides the embedded GLSL sources for the surface and
// wireframe programs. Both vertex shaders are assembled from shared
// fragments at package init.
package shaders

import (
	_ "embed"
	"strings"
)

//go:embed defines.glsl
var definesSrc string

//go:embed properties.glsl
var propertiesSrc string

//go:embed noise.glsl
var noiseSrc string

//go:embed map.glsl
var mapSrc string

//go:embed body.glsl
var bodySrc string

//go:embed floor.vert
var floorVertexTemplate string

//go:embed lines.vert
var linesVertexTemplate string

// FloorFragmentShader is the fragment shader for the filled surface.
//
//go:embed floor.frag
var FloorFragmentShader string

// LinesFragmentShader is the fragment shader for the wireframe overlay.
//
//go:embed lines.frag
var LinesFragmentShader string

// FloorVertexShader is the assembled vertex shader for the filled surface.
var FloorVertexShader = Compose(floorVertexTemplate)

// LinesVertexShader is the assembled vertex shader for the wireframe overlay.
var LinesVertexShader = Compose(linesVertexTemplate)

// Compose replaces the {defines}, {properties}, {functions} and {body}
// placeholders in a vertex template with the shared fragments.
func Compose(template string) string {
	return strings.NewReplacer(
		"{defines}", definesSrc,
		"{properties}", propertiesSrc,
		"{functions}", noiseSrc+"\n"+mapSrc,
		"{body}", bodySrc,
	).Replace(template)
}
