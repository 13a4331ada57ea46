package catalog

import "strings"

// CategoryNode is one node of the category tree
type CategoryNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	Level    int            `json:"level"`
	IsLeaf   bool           `json:"is_leaf"`
	Children []CategoryNode `json:"children"`
}

// Find searches the forest depth first for id
func Find(roots []CategoryNode, id string) *CategoryNode {
	for i := range roots {
		if roots[i].ID == id {
			return &roots[i]
		}
		if n := Find(roots[i].Children, id); n != nil {
			return n
		}
	}
	return nil
}

// ResolvePath walks ids level by level and returns the nodes selected. Walking
// stops at the first id that is not a child of the previous selection.
func ResolvePath(roots []CategoryNode, ids []string) []CategoryNode {
	path := make([]CategoryNode, 0, len(ids))
	level := roots
	for _, id := range ids {
		var next *CategoryNode
		for i := range level {
			if level[i].ID == id {
				next = &level[i]
				break
			}
		}
		if next == nil {
			break
		}
		path = append(path, *next)
		level = next.Children
	}
	return path
}

// Options returns the choices offered after path: the roots for an empty
// path, the children of the last node otherwise
func Options(roots []CategoryNode, path []CategoryNode) []CategoryNode {
	if len(path) == 0 {
		return roots
	}
	return path[len(path)-1].Children
}

// IsLeafPath reports whether path ends in a leaf category
func IsLeafPath(path []CategoryNode) bool {
	return len(path) > 0 && path[len(path)-1].IsLeaf
}

// Breadcrumb joins the names along path
func Breadcrumb(path []CategoryNode) string {
	names := make([]string, len(path))
	for i, n := range path {
		names[i] = n.Name
	}
	return strings.Join(names, " › ")
}

// PathTo returns the ids from a root down to id, or nil if id is absent
func PathTo(roots []CategoryNode, id string) []string {
	for _, n := range roots {
		if n.ID == id {
			return []string{n.ID}
		}
		if sub := PathTo(n.Children, id); sub != nil {
			return append([]string{n.ID}, sub...)
		}
	}
	return nil
}

// Leaves flattens the forest to its leaf nodes in tree order
func Leaves(roots []CategoryNode) []CategoryNode {
	var out []CategoryNode
	for _, n := range roots {
		if n.IsLeaf {
			out = append(out, n)
			continue
		}
		out = append(out, Leaves(n.Children)...)
	}
	return out
}
