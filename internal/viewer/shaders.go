package viewer

// Attribute inputs are named after the registered channels and bound to their
// locations by shader.CompileProgram.
const vertexShader = `#version 410 core

in vec3 Vertex_Position;
in vec3 Vertex_Normal;
in vec2 Vertex_Uv;
in uint Vertex_FaceId;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;
uniform mat3 uNormalMatrix;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;
flat out uint vFace;

void main() {
    vec4 world = uModel * vec4(Vertex_Position, 1.0);
    vWorldPos = world.xyz;
    vNormal = uNormalMatrix * Vertex_Normal;
    vUV = Vertex_Uv;
    vFace = Vertex_FaceId;
    gl_Position = uProjection * uView * world;
}
`

const fragmentShader = `#version 410 core

const int SHADING_FACE = 0;
const int SHADING_UV = 1;
const int SHADING_NORMAL = 2;

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;
flat in uint vFace;

uniform int uShading;
uniform int uHasUV;
uniform int uHasFace;
uniform vec3 uFaceColors[6];
uniform vec3 uLightPos;
uniform vec3 uCameraPos;
uniform sampler2D uTexture;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    vec3 base = vec3(0.7);

    if (uShading == SHADING_FACE && uHasFace != 0) {
        base = uFaceColors[min(vFace, 5u)];
    } else if (uShading == SHADING_UV && uHasUV != 0) {
        base = texture(uTexture, vUV).rgb;
    } else if (uShading == SHADING_NORMAL) {
        FragColor = vec4(n * 0.5 + 0.5, 1.0);
        return;
    }
    base = pow(base, vec3(2.2));

    vec3 l = normalize(uLightPos - vWorldPos);
    vec3 v = normalize(uCameraPos - vWorldPos);
    vec3 h = normalize(l + v);
    float diffuse = max(dot(n, l), 0.0);
    float specular = pow(max(dot(n, h), 0.0), 48.0) * 0.35;

    vec3 color = base * (0.2 + 0.8 * diffuse) + vec3(specular);
    FragColor = vec4(pow(color, vec3(1.0 / 2.2)), 1.0);
}
`
