package physics

// Material tags a body surface so contact parameters can be looked up per pair.
type Material struct {
	Name string
}

// NewMaterial returns a named material.
func NewMaterial(name string) *Material {
	return &Material{Name: name}
}

// ContactMaterial holds the friction and restitution used when materials A and B touch.
type ContactMaterial struct {
	A, B        *Material
	Friction    float64
	Restitution float64
}

// NewContactMaterial pairs two materials.
func NewContactMaterial(a, b *Material, friction, restitution float64) *ContactMaterial {
	return &ContactMaterial{A: a, B: b, Friction: friction, Restitution: restitution}
}

func (c *ContactMaterial) matches(a, b *Material) bool {
	return (c.A == a && c.B == b) || (c.A == b && c.B == a)
}
