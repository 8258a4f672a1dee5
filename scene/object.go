package scene

import "deferred-pbr/math"

// Object is one draw item of the geometry pass.
type Object struct {
	Name     string
	Mesh     *Mesh
	Material *SurfaceMaterial
	Model    math.Mat4
}

func NewObject(name string, mesh *Mesh, material *SurfaceMaterial) *Object {
	return &Object{
		Name:     name,
		Mesh:     mesh,
		Material: material,
		Model:    math.Mat4Identity(),
	}
}
