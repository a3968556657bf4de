package gpu

// Attribute names shared by the surface and wireframe programs.
const (
	AttrPosition     = "v_pos"
	AttrColorSeed    = "v_col"
	AttrVelocitySeed = "v_vel"
)

// Uniform names shared by the surface and wireframe programs.
const (
	UniformResolution = "v_res"
	UniformWorld      = "m_world"
	UniformView       = "m_view"
	UniformProjection = "m_projection"
	UniformTime       = "f_t"
	UniformMode       = "i_mode"
	UniformPrecision  = "f_prec"
)

// AttributeNames lists every attribute slot in declaration order.
var AttributeNames = []string{AttrPosition, AttrColorSeed, AttrVelocitySeed}

// UniformNames lists every uniform slot.
var UniformNames = []string{
	UniformResolution,
	UniformWorld,
	UniformView,
	UniformProjection,
	UniformTime,
	UniformMode,
	UniformPrecision,
}

// Interleaved vertex layout: 3 position + 3 color seed + 3 velocity seed.
const (
	VertexStride       = 9
	PositionOffset     = 0
	ColorSeedOffset    = 3
	VelocitySeedOffset = 6
	bytesPerFloat      = 4
)
