package filetree

import (
	"sort"

	"github.com/elliotchance/orderedmap"
	"github.com/pkg/errors"
	"howett.net/plist"

	"github.com/stateful/typstify/internal/ulid"
)

// IDMap maps tree paths ("/", "/chapters/intro.typ") to persistent IDs.
// It carries identity through storage that has no notion of it, such as a
// plain directory. Iteration follows insertion order.
type IDMap struct {
	entries *orderedmap.OrderedMap
}

func NewIDMap() *IDMap {
	return &IDMap{entries: orderedmap.NewOrderedMap()}
}

func (m *IDMap) Set(path, id string) {
	m.entries.Set(path, id)
}

func (m *IDMap) Get(path string) (string, bool) {
	v, ok := m.entries.Get(path)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (m *IDMap) Len() int {
	return m.entries.Len()
}

func (m *IDMap) Paths() []string {
	paths := make([]string, 0, m.entries.Len())
	for el := m.entries.Front(); el != nil; el = el.Next() {
		paths = append(paths, el.Key.(string))
	}
	return paths
}

// BuildIDMap records the ID of every node under root in a single walk.
func BuildIDMap(root *Node) *IDMap {
	m := NewIDMap()
	_ = Walk(root, func(path []string, node *Node) error {
		m.Set(PathString(path), node.ID())
		return nil
	})
	return m
}

// ApplyIDMap gives the nodes of a freshly loaded tree the IDs recorded for
// their paths. Nodes without an entry keep the IDs minted at load time. An
// ID is never handed out twice, even if a damaged map lists it twice.
func ApplyIDMap(root *Node, m *IDMap) {
	if m == nil || m.Len() == 0 {
		return
	}

	claimed := make(map[string]struct{})
	var unmapped []*Node

	_ = Walk(root, func(path []string, node *Node) error {
		id, ok := m.Get(PathString(path))
		if !ok || id == "" {
			unmapped = append(unmapped, node)
			return nil
		}
		if _, dup := claimed[id]; dup {
			unmapped = append(unmapped, node)
			return nil
		}
		claimed[id] = struct{}{}
		node.id = id
		return nil
	})

	for _, node := range unmapped {
		for {
			if _, dup := claimed[node.id]; !dup {
				break
			}
			node.id = ulid.GenerateID()
		}
		claimed[node.id] = struct{}{}
	}
}

// Marshal encodes the map as an XML property list dictionary. Keys are
// emitted sorted, so equal maps always produce equal bytes.
func (m *IDMap) Marshal() ([]byte, error) {
	dict := make(map[string]string, m.Len())
	for el := m.entries.Front(); el != nil; el = el.Next() {
		dict[el.Key.(string)] = el.Value.(string)
	}
	data, err := plist.MarshalIndent(dict, plist.XMLFormat, "\t")
	return data, errors.Wrap(err, "failed to encode id map")
}

// UnmarshalIDMap decodes data produced by Marshal.
func UnmarshalIDMap(data []byte) (*IDMap, error) {
	var dict map[string]string
	if _, err := plist.Unmarshal(data, &dict); err != nil {
		return nil, errors.Wrapf(ErrCorruptData, "decode id map: %v", err)
	}
	paths := make([]string, 0, len(dict))
	for p := range dict {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	m := NewIDMap()
	for _, p := range paths {
		m.Set(p, dict[p])
	}
	return m, nil
}
