// SPDX-License-Identifier: GPL-2.0-or-later

package glh

const (
	vertexWorldSource = `
#version 330
layout (location = 0) in vec3 position;
layout (location = 1) in float prevz;
layout (location = 2) in vec2 texcoord;
layout (location = 3) in float light;
layout (location = 4) in float alpha;
out vec2 Texcoord;
out float Light;
out float Alpha;
out vec3 World;
uniform mat4 projection;
uniform mat4 modelview;
uniform float frac;

void main() {
	Texcoord = texcoord;
	Light = light / 255.0;
	Alpha = alpha;
	World = vec3(position.xy, mix(prevz, position.z, frac));
	gl_Position = projection * modelview * vec4(World, 1.0);
}
` + "\x00"

	fragmentWorldSource = `
#version 330
in vec2 Texcoord;
in float Light;
in float Alpha;
out vec4 frag_color;
uniform sampler2D tex;

void main() {
	vec4 color = texture(tex, Texcoord);
	if (color.a < 0.5)
		discard;
	frag_color = vec4(color.rgb * Light, Alpha);
}
` + "\x00"

	// Flood vertices carry the plane height in prevz. The plane is
	// projected along the view ray.
	vertexFloodSource = `
#version 330
layout (location = 0) in vec3 position;
layout (location = 1) in float planez;
layout (location = 3) in float light;
out float Light;
out float PlaneZ;
out vec3 World;
uniform mat4 projection;
uniform mat4 modelview;

void main() {
	Light = light / 255.0;
	PlaneZ = planez;
	World = position;
	gl_Position = projection * modelview * vec4(position, 1.0);
}
` + "\x00"

	fragmentFloodSource = `
#version 330
in float Light;
in float PlaneZ;
in vec3 World;
out vec4 frag_color;
uniform sampler2D tex;
uniform vec3 eye;

void main() {
	vec3 dir = World - eye;
	if (abs(dir.z) < 0.0001)
		discard;
	float t = (PlaneZ - eye.z) / dir.z;
	if (t <= 0.0)
		discard;
	vec2 hit = eye.xy + dir.xy * t;
	vec4 color = texture(tex, vec2(hit.x, -hit.y) / 64.0);
	frag_color = vec4(color.rgb * Light, 1.0);
}
` + "\x00"

	vertexSkySource = `
#version 330
layout (location = 0) in vec3 position;
layout (location = 1) in float prevz;
out vec3 World;
uniform mat4 projection;
uniform mat4 modelview;
uniform float frac;

void main() {
	World = vec3(position.xy, mix(prevz, position.z, frac));
	gl_Position = projection * modelview * vec4(World, 1.0);
}
` + "\x00"

	fragmentSkySource = `
#version 330
in vec3 World;
out vec4 frag_color;
uniform sampler2D tex;
uniform vec3 eye;

void main() {
	vec3 dir = normalize(World - eye);
	float u = atan(dir.y, dir.x) / 6.2831853 * -4.0;
	float v = 0.5 - dir.z;
	frag_color = vec4(texture(tex, vec2(u, v)).rgb, 1.0);
}
` + "\x00"
)
