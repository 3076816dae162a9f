package util

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a node of the scene graph. Physics reads and writes its translation,
// the rotation is cosmetic and only read for view directions.
type Transform struct {
	parent      *Transform
	children    []*Transform
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3
	nameOfOwner string
}

func NewDefaultTransform(name string) *Transform {
	return &Transform{
		translation: mgl32.Vec3{0, 0, 0},
		rotation:    mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
		nameOfOwner: name,
	}
}

func NewTransform(name string, position mgl32.Vec3) *Transform {
	t := NewDefaultTransform(name)
	t.translation = position
	return t
}

func (t *Transform) GetName() string {
	return t.nameOfOwner
}
func (t *Transform) SetName(name string) {
	t.nameOfOwner = name
}

func (t *Transform) GetParent() *Transform {
	return t.parent
}

// AddChild reparents child under t.
func (t *Transform) AddChild(child *Transform) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = t
	t.children = append(t.children, child)
}

func (t *Transform) RemoveChild(child *Transform) {
	for i, c := range t.children {
		if c == child {
			t.children = append(t.children[:i], t.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func (t *Transform) Children() []*Transform {
	return t.children
}

// Walk visits t and all of its descendants depth first.
func (t *Transform) Walk(visit func(node *Transform)) {
	visit(t)
	for _, child := range t.children {
		child.Walk(visit)
	}
}

func (t *Transform) GetPosition() mgl32.Vec3 {
	return t.translation
}
func (t *Transform) SetPosition(position mgl32.Vec3) {
	t.translation = position
}

func (t *Transform) GetRotation() mgl32.Quat {
	return t.rotation
}
func (t *Transform) SetRotation(rotation mgl32.Quat) {
	t.rotation = rotation
}

func (t *Transform) GetScale() mgl32.Vec3 {
	return t.scale
}

func (t *Transform) SetScale(scale mgl32.Vec3) {
	t.scale = scale
}

func (t *Transform) GetForward() mgl32.Vec3 {
	return t.rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (t *Transform) GetRight() mgl32.Vec3 {
	return t.rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// SetYaw turns the node around the up axis. Angle in degrees.
func (t *Transform) SetYaw(angle float32) {
	t.rotation = mgl32.QuatRotate(mgl32.DegToRad(angle), UpVector)
}

func (t *Transform) GetLocalTransform() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.translation.X(), t.translation.Y(), t.translation.Z())
	rotation := t.rotation.Mat4()
	scale := mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())
	return translation.Mul4(rotation).Mul4(scale)
}

func (t *Transform) GetTransformMatrix() mgl32.Mat4 {
	local := t.GetLocalTransform()
	if t.parent != nil {
		return t.parent.GetTransformMatrix().Mul4(local)
	}
	return local
}

func (t *Transform) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string     `json:"name"`
		Position mgl32.Vec3 `json:"translation"`
		Rotation mgl32.Quat `json:"rotation"`
		Scale    mgl32.Vec3 `json:"scale"`
	}{
		Name:     t.nameOfOwner,
		Position: t.translation,
		Rotation: t.rotation,
		Scale:    t.scale,
	})
}
