package opengl

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// GLSL keywords reserved for future use; some drivers reject them as names.
var glslReserved = map[string]bool{
	"common": true, "partition": true, "active": true, "asm": true, "class": true,
	"union": true, "enum": true, "typedef": true, "template": true, "this": true,
	"resource": true, "goto": true, "inline": true, "noinline": true, "public": true,
	"static": true, "extern": true, "external": true, "interface": true, "long": true,
	"short": true, "half": true, "fixed": true, "unsigned": true, "superp": true,
	"input": true, "output": true, "filter": true, "sizeof": true, "cast": true,
	"namespace": true, "using": true, "packed": true,
}

var glslDecl = regexp.MustCompile(`\b(?:float|u?int|bool|[iu]?vec[234]|mat[234])\s+([A-Za-z_]\w*)`)

func TestBuiltinShadersAvoidReservedNames(t *testing.T) {
	for name, src := range builtinShaders() {
		for stage, code := range map[string]string{"vertex": src.Vertex, "fragment": src.Fragment} {
			for _, m := range glslDecl.FindAllStringSubmatch(code, -1) {
				assert.False(t, glslReserved[m[1]], "%s %s declares reserved name %q", name, stage, m[1])
			}
		}
	}
}
