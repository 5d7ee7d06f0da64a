package rldevice

import (
	"fmt"
	"strings"

	"github.com/philipparndt/stlvol/pkg/render"
)

// raylib binds mesh streams to these attribute names when it links a
// program, and only guarantees a 330 core context
var glsl330 = strings.NewReplacer(
	"#version 410 core", "#version 330",
	"layout(location = 0) in vec3 aPosition;", "in vec3 vertexPosition;",
	"layout(location = 1) in vec3 aNormal;", "in vec3 vertexNormal;",
	"uniform mat3 uNormal;", "uniform mat4 uNormal;",
	"uNormal * aNormal", "mat3(uNormal) * vertexNormal",
	"vec4(aPosition, 1.0)", "vec4(vertexPosition, 1.0)",
)

// translate rewrites one of the fixed program's sources for raylib. Only
// the named wax stages are known.
func translate(src string) (string, error) {
	name, err := render.ShaderName(src)
	if err != nil {
		return "", err
	}
	switch name {
	case render.VertexShaderName, render.FragmentShaderName:
	default:
		return "", fmt.Errorf("unknown shader %q", name)
	}
	out := glsl330.Replace(src)
	if strings.Contains(out, "aPosition") || strings.Contains(out, "aNormal") {
		return "", fmt.Errorf("shader %q: unsupported attribute layout", name)
	}
	return out, nil
}
