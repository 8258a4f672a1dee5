package opengl

// Built-in GLSL sources. Each program is looked up by logical name through
// the ShaderLibrary, which may replace any of them from disk.

// fullscreenVertSrc draws one oversized triangle from gl_VertexID; no vertex
// buffer is bound.
const fullscreenVertSrc = `
#version 410 core
out vec2 fragUV;
void main() {
    const vec2 pos[3] = vec2[3](vec2(-1.0, -1.0), vec2(3.0, -1.0), vec2(-1.0, 3.0));
    fragUV = pos[gl_VertexID] * 0.5 + 0.5;
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
}
`

const gBufferVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec3 inTangent;
layout(location = 4) in vec3 inBitangent;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
uniform mat3 normalMatrix;

out vec3 fragPos;
out vec2 fragUV;
out mat3 fragTBN;

void main() {
    vec4 world = model * vec4(inPosition, 1.0);
    fragPos = world.xyz;
    fragUV = inUV;
    fragTBN = mat3(normalMatrix * inTangent, normalMatrix * inBitangent, normalMatrix * inNormal);
    gl_Position = projection * view * world;
}
`

const gBufferFragSrc = `
#version 410 core
in vec3 fragPos;
in vec2 fragUV;
in mat3 fragTBN;

layout(location = 0) out vec4 gPosition;
layout(location = 1) out vec4 gBaseColor;
layout(location = 2) out vec4 gNormal;
layout(location = 3) out uint gMetallicRoughness;

uniform sampler2D baseColorTex;
uniform sampler2D normalTex;
uniform sampler2D metallicTex;
uniform sampler2D roughnessTex;

uint unorm16(float v) {
    return uint(floor(clamp(v, 0.0, 1.0) * 65535.0 + 0.5));
}

void main() {
    mat3 tbn = mat3(normalize(fragTBN[0]), normalize(fragTBN[1]), normalize(fragTBN[2]));
    vec3 tn = texture(normalTex, fragUV).xyz * 2.0 - 1.0;

    gPosition = vec4(fragPos, 1.0);
    gBaseColor = vec4(texture(baseColorTex, fragUV).rgb, 1.0);
    gNormal = vec4(normalize(tbn * tn), 0.0);
    gMetallicRoughness = (unorm16(texture(metallicTex, fragUV).r) << 16) |
                         unorm16(texture(roughnessTex, fragUV).r);
}
`

const pbrResolveFragSrc = `
#version 410 core
in vec2 fragUV;
out vec4 outColor;

const float PI = 3.14159265359;
const float MIN_ROUGHNESS = 0.04;
const int MAX_LIGHTS = 64;

struct PointLight {
    vec4 position;
    vec4 intensity;
};

layout(std140) uniform LightBlock {
    PointLight lights[MAX_LIGHTS];
    ivec4 lightCount;
};

uniform sampler2D gPosition;
uniform sampler2D gBaseColor;
uniform sampler2D gNormal;
uniform usampler2D gMetallicRoughness;
uniform sampler2D gDepth;

uniform samplerCube prefiltered;
uniform sampler2D brdfLUT;
uniform float maxLod;
uniform vec3 cameraPos;

float distributionGGX(float NdotH, float roughness) {
    float a = roughness * roughness;
    float a2 = a * a;
    NdotH = max(NdotH, 0.0);
    float d = NdotH * NdotH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float schlickGGX(float NdotV, float k) {
    return NdotV / (NdotV * (1.0 - k) + k);
}

float smith(float NdotV, float NdotL, float k) {
    return schlickGGX(max(NdotV, 0.0), k) * schlickGGX(max(NdotL, 0.0), k);
}

vec3 fresnel(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

vec3 fresnelRoughness(float cosTheta, vec3 F0, float roughness) {
    return F0 + (max(vec3(1.0 - roughness), F0) - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

void main() {
    if (texture(gDepth, fragUV).r >= 1.0) {
        outColor = vec4(0.0, 0.0, 0.0, 1.0);
        return;
    }
    vec3 P = texture(gPosition, fragUV).xyz;
    vec3 albedo = texture(gBaseColor, fragUV).rgb;
    vec3 N = normalize(texture(gNormal, fragUV).xyz);
    uint mr = texture(gMetallicRoughness, fragUV).r;
    float metallic = float(mr >> 16) / 65535.0;
    float roughness = clamp(float(mr & 0xFFFFu) / 65535.0, MIN_ROUGHNESS, 1.0);

    vec3 V = normalize(cameraPos - P);
    float NdotV = max(dot(N, V), 0.0);
    vec3 F0 = mix(vec3(0.04), albedo, metallic);

    vec3 Fa = fresnelRoughness(NdotV, F0, roughness);
    vec3 kDa = (1.0 - Fa) * (1.0 - metallic);
    vec3 irradiance = textureLod(prefiltered, N, maxLod).rgb;
    vec3 R = reflect(-V, N);
    vec3 specEnv = textureLod(prefiltered, R, roughness * maxLod).rgb;
    vec2 ab = texture(brdfLUT, vec2(NdotV, roughness)).rg;
    vec3 color = kDa * irradiance * albedo + specEnv * (Fa * ab.x + ab.y);

    float kDirect = (roughness + 1.0) * (roughness + 1.0) / 8.0;
    for (int i = 0; i < lightCount.x; ++i) {
        vec3 toLight = lights[i].position.xyz - P;
        float dist2 = dot(toLight, toLight);
        if (dist2 <= 0.0) continue;
        vec3 L = toLight * inversesqrt(dist2);
        float NdotL = max(dot(N, L), 0.0);
        if (NdotL <= 0.0) continue;
        vec3 H = normalize(V + L);

        vec3 radiance = lights[i].intensity.rgb / dist2;
        float D = distributionGGX(dot(N, H), roughness);
        float G = smith(NdotV, NdotL, kDirect);
        vec3 F = fresnel(max(dot(H, V), 0.0), F0);

        vec3 specular = F * D * G / max(4.0 * NdotV * NdotL, 1e-4);
        vec3 kD = (1.0 - F) * (1.0 - metallic);
        color += (kD * albedo / PI + specular) * radiance * NdotL;
    }
    outColor = vec4(color, 1.0);
}
`

// skyboxVertSrc keeps the cube centred on the camera; depth testing is off
// and the fragment stage decides coverage from the G-buffer depth.
const skyboxVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 view;
uniform mat4 projection;

out vec3 fragDir;

void main() {
    fragDir = inPosition;
    vec4 pos = projection * view * vec4(inPosition, 1.0);
    gl_Position = pos.xyww;
}
`

const skyboxFragSrc = `
#version 410 core
in vec3 fragDir;
out vec4 outColor;

uniform samplerCube environment;
uniform sampler2D gDepth;
uniform vec2 viewport;

void main() {
    vec2 uv = gl_FragCoord.xy / viewport;
    if (texture(gDepth, uv).r < 1.0) {
        discard;
    }
    outColor = vec4(texture(environment, normalize(fragDir)).rgb, 1.0);
}
`

const presentFragSrc = `
#version 410 core
in vec2 fragUV;
out vec4 outColor;

uniform sampler2D hdrBuffer;
uniform float exposure;

void main() {
    vec3 hdr = texture(hdrBuffer, fragUV).rgb;
    vec3 mapped = vec3(1.0) - exp(-hdr * exposure);
    outColor = vec4(pow(mapped, vec3(1.0 / 2.2)), 1.0);
}
`
