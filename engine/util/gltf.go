package util

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

// PlacedBox is a collision box read from a level file: the box in the node's local space
// and the position of the node.
type PlacedBox struct {
	Name     string
	Box      AABB
	Position mgl32.Vec3
}

// LoadCollisionBoxes turns every mesh node of the default scene of a glTF/GLB file into
// a box around its vertices. Node rotations are ignored, only translation and scale apply.
func LoadCollisionBoxes(filename string) ([]PlacedBox, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		LogIOError("could not open level file", zap.String("file", filename), zap.Error(err))
		return nil, errors.Wrapf(err, "open level %s", filename)
	}
	boxes, err := CollisionBoxesFromDocument(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "read level %s", filename)
	}
	LogIOInfo("loaded collision boxes", zap.String("file", filename), zap.Int("count", len(boxes)))
	return boxes, nil
}

func CollisionBoxesFromDocument(doc *gltf.Document) ([]PlacedBox, error) {
	if len(doc.Scenes) == 0 {
		return nil, errors.New("document has no scenes")
	}
	defaultSceneIndex := 0
	if doc.Scene != nil {
		defaultSceneIndex = int(*doc.Scene)
	}
	if defaultSceneIndex >= len(doc.Scenes) {
		return nil, errors.Errorf("default scene %d out of range", defaultSceneIndex)
	}

	var result []PlacedBox
	for _, rootIndex := range doc.Scenes[defaultSceneIndex].Nodes {
		placed, err := collectNodeBoxes(doc, rootIndex, nodePlacement{scale: mgl32.Vec3{1, 1, 1}}, result)
		if err != nil {
			return nil, err
		}
		result = placed
	}
	return result, nil
}

type nodePlacement struct {
	translation mgl32.Vec3
	scale       mgl32.Vec3
}

func (p nodePlacement) child(translation, scale [3]float32) nodePlacement {
	local := mgl32.Vec3(translation)
	return nodePlacement{
		translation: p.translation.Add(mulElem(p.scale, local)),
		scale:       mulElem(p.scale, mgl32.Vec3(scale)),
	}
}

func collectNodeBoxes(doc *gltf.Document, nodeIndex uint32, parent nodePlacement, result []PlacedBox) ([]PlacedBox, error) {
	if int(nodeIndex) >= len(doc.Nodes) {
		return nil, errors.Errorf("node %d out of range", nodeIndex)
	}
	docNode := doc.Nodes[nodeIndex]
	placement := parent.child(docNode.TranslationOrDefault(), docNode.ScaleOrDefault())

	if docNode.Mesh != nil {
		bounds, err := meshBounds(doc, *docNode.Mesh)
		if err != nil {
			return nil, errors.Wrapf(err, "node %q", docNode.Name)
		}
		result = append(result, PlacedBox{
			Name:     docNode.Name,
			Box:      scaleBox(bounds, placement.scale),
			Position: placement.translation,
		})
	}

	for _, childNodeIndex := range docNode.Children {
		var err error
		result, err = collectNodeBoxes(doc, childNodeIndex, placement, result)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func meshBounds(doc *gltf.Document, meshIndex uint32) (AABB, error) {
	if int(meshIndex) >= len(doc.Meshes) {
		return AABB{}, errors.Errorf("mesh %d out of range", meshIndex)
	}
	var vertBuffer [][3]float32
	for _, subMesh := range doc.Meshes[meshIndex].Primitives {
		indexOfPositions, ok := subMesh.Attributes["POSITION"]
		if !ok {
			continue
		}
		if int(indexOfPositions) >= len(doc.Accessors) {
			return AABB{}, errors.Errorf("accessor %d out of range", indexOfPositions)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[indexOfPositions], nil)
		if err != nil {
			return AABB{}, errors.Wrap(err, "read positions")
		}
		vertBuffer = append(vertBuffer, positions...)
	}
	if len(vertBuffer) == 0 {
		return AABB{}, errors.Errorf("mesh %d has no vertices", meshIndex)
	}
	return BoundsOfPoints(vertBuffer), nil
}

// BoundsOfPoints returns the smallest box containing all points. points must not be empty.
func BoundsOfPoints(points [][3]float32) AABB {
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.ExpandByPoint(p)
	}
	return box
}

func scaleBox(box AABB, scale mgl32.Vec3) AABB {
	return NewAABBFromPoints(mulElem(box.Min, scale), mulElem(box.Max, scale))
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
