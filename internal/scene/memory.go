package scene

import (
	"fmt"
	"strings"
)

// Memory is an in-memory Scene. It backs the CLI (where the real scene
// lives in an external renderer and only the target's bounds are known)
// and tests.
type Memory struct {
	objects map[string]Object
	hidden  map[string]bool
	cameras []Camera
}

// NewMemory creates an empty in-memory scene.
func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string]Object),
		hidden:  make(map[string]bool),
	}
}

// AddObject inserts or replaces an object.
func (m *Memory) AddObject(obj Object) {
	m.objects[obj.Name] = obj
}

// Object returns the named object, or ErrNotFound.
func (m *Memory) Object(name string) (Object, error) {
	obj, ok := m.objects[name]
	if !ok {
		return Object{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return obj, nil
}

// Faces returns the mesh faces of the named object.
func (m *Memory) Faces(name string) ([]Face, error) {
	obj, err := m.Object(name)
	if err != nil {
		return nil, err
	}
	return obj.Faces, nil
}

// AddCamera inserts a camera entity.
func (m *Memory) AddCamera(cam Camera) error {
	m.cameras = append(m.cameras, cam)
	return nil
}

// RemoveCameras removes cameras whose name starts with prefix.
func (m *Memory) RemoveCameras(prefix string) int {
	kept := m.cameras[:0]
	removed := 0
	for _, cam := range m.cameras {
		if strings.HasPrefix(cam.Name, prefix) {
			removed++
			continue
		}
		kept = append(kept, cam)
	}
	m.cameras = kept
	return removed
}

// Cameras returns the current camera entities in insertion order.
func (m *Memory) Cameras() []Camera {
	return m.cameras
}

// Visible reports whether the named object is visible.
func (m *Memory) Visible(name string) (bool, error) {
	if _, err := m.Object(name); err != nil {
		return false, err
	}
	return !m.hidden[name], nil
}

// SetVisible sets the named object's visibility.
func (m *Memory) SetVisible(name string, visible bool) error {
	if _, err := m.Object(name); err != nil {
		return err
	}
	m.hidden[name] = !visible
	return nil
}
