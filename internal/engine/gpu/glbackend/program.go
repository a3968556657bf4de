package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
)

// CreateProgram compiles vertex and fragment shaders, links them and
// resolves the requested slots. Inactive slots resolve to -1.
func (b *Backend) CreateProgram(vertexSrc, fragmentSrc string, attrs, uniforms []string) (*gpu.Program, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("link: %s", string(log))
	}

	attrLocs := make(map[string]int32, len(attrs))
	for _, name := range attrs {
		attrLocs[name] = gl.GetAttribLocation(program, gl.Str(name+"\x00"))
	}
	uniLocs := make(map[string]int32, len(uniforms))
	for _, name := range uniforms {
		uniLocs[name] = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	}

	b.log.Debug("program linked",
		zap.Uint32("program", program),
		zap.Any("attributes", attrLocs),
	)
	return gpu.NewProgram(program, attrLocs, uniLocs), nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}
