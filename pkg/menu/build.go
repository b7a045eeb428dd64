package menu

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Item is a branch of a menu description: a name and its (non-empty) children.
// Children elements follow the same rules as the top-level list passed to Build.
type Item struct {
	Name     string `mapstructure:"name" json:"name" yaml:"name"`
	Children []any  `mapstructure:"children" json:"children" yaml:"children"`
}

// rawItem is the target used to decode generic maps, so that a missing
// "children" key can be told apart from an empty list.
type rawItem struct {
	Name     *string `mapstructure:"name"`
	Children *[]any  `mapstructure:"children"`
}

// Build constructs a menu tree from a nested list description.
// Every element must be a string (leaf), an Item (or *Item), or a map with
// "name" and "children" keys. It fails with a *MalformedMenuError otherwise.
func Build(items []any) (*Node, error) {
	root := &Node{index: -1}
	if err := attach(root, items, nil); err != nil {
		return nil, err
	}
	return root, nil
}

// MustBuild is like Build but panics on a malformed description.
// It is intended for static menus defined in code.
func MustBuild(items []any) *Node {
	root, err := Build(items)
	if err != nil {
		panic(err)
	}
	return root
}

func attach(parent *Node, items []any, path []int) error {
	n := len(items)
	if n == 0 {
		return nil
	}
	step := 360.0 / float64(n)
	parent.children = make([]*Node, 0, n)

	for i, raw := range items {
		itemPath := append(append([]int(nil), path...), i)

		label, children, isBranch, err := classify(raw, itemPath)
		if err != nil {
			return err
		}

		child := &Node{
			label:  label,
			angle:  BaseAngle + float64(i)*step,
			parent: parent,
			index:  i,
			id:     childID(parent, i),
		}
		parent.children = append(parent.children, child)

		if isBranch {
			if len(children) == 0 {
				return malformed(itemPath, "item %q is marked as having children but the list is empty", label)
			}
			if err := attach(child, children, itemPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func childID(parent *Node, i int) string {
	if parent.id == "" {
		return strconv.Itoa(i)
	}
	return parent.id + "." + strconv.Itoa(i)
}

// classify resolves one element of a description into its label and children.
func classify(raw any, path []int) (label string, children []any, isBranch bool, err error) {
	switch v := raw.(type) {
	case string:
		return v, nil, false, nil
	case Item:
		if v.Children == nil {
			return "", nil, false, malformed(path, "item %q has no children list", v.Name)
		}
		return v.Name, v.Children, true, nil
	case *Item:
		if v == nil {
			return "", nil, false, malformed(path, "nil item")
		}
		return classify(*v, path)
	case map[string]any, map[any]any:
		var ri rawItem
		if decErr := mapstructure.Decode(v, &ri); decErr != nil {
			return "", nil, false, malformed(path, "invalid item: %v", decErr)
		}
		if ri.Name == nil {
			return "", nil, false, malformed(path, "item has no name")
		}
		if ri.Children == nil {
			return "", nil, false, malformed(path, "item %q has no children list", *ri.Name)
		}
		return *ri.Name, *ri.Children, true, nil
	case nil:
		return "", nil, false, malformed(path, "nil item")
	default:
		return "", nil, false, malformed(path, "unsupported item type %s", fmt.Sprintf("%T", raw))
	}
}
