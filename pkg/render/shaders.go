package render

import (
	"fmt"
	"strings"
)

// Program stage names. Every shader source carries a "// name:" line so
// devices that do not compile GLSL can select a matching implementation.
const (
	VertexShaderName   = "wax.vert"
	FragmentShaderName = "wax.frag"
)

// VertexShader transforms positions to clip space and passes the rotated
// normal and world position on.
const VertexShader = `#version 410 core
// name: wax.vert

layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;

uniform mat4 uProjection;
uniform mat4 uView;
uniform mat4 uModel;
uniform mat3 uNormal;

out vec3 vNormal;
out vec3 vWorld;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorld = world.xyz;
    vNormal = uNormal * aNormal;
    gl_Position = uProjection * uView * world;
}
`

// FragmentShader shades with two Lambert lights and a rim term
const FragmentShader = `#version 410 core
// name: wax.frag

in vec3 vNormal;
in vec3 vWorld;

uniform vec3 uEye;
uniform vec3 uColor;
uniform vec3 uLightDir[2];
uniform float uLightStrength[2];
uniform float uAmbient;
uniform float uRim;

out vec4 fragColor;

void main() {
    vec3 n = normalize(vNormal);
    vec3 v = normalize(uEye - vWorld);
    if (dot(n, v) < 0.0) {
        n = -n;
    }
    float diffuse = uAmbient;
    for (int i = 0; i < 2; i++) {
        diffuse += max(dot(n, uLightDir[i]), 0.0) * uLightStrength[i];
    }
    float rim = pow(1.0 - max(dot(n, v), 0.0), 3.0) * uRim;
    fragColor = vec4(min(uColor * diffuse + vec3(rim), vec3(1.0)), 1.0);
}
`

// ShaderName returns the name tag of a shader source. Sources without a
// version directive, a main function or a name tag are rejected.
func ShaderName(src string) (string, error) {
	if !strings.HasPrefix(strings.TrimSpace(src), "#version") {
		return "", fmt.Errorf("missing #version directive")
	}
	if !strings.Contains(src, "void main(") {
		return "", fmt.Errorf("missing main function")
	}
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(line, "// name:"); ok {
			if name = strings.TrimSpace(name); name != "" {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("missing name tag")
}
