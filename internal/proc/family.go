package proc

import "sort"

// Family traversal helpers. All of them are pure functions over one Index
// and recompute from the adjacency every time; caching would be invalidated
// by every refresh anyway. Traversals keep a visited set so a corrupted or
// adversarial parent chain cannot loop them, even though a real process
// tree is acyclic.

// Descendants returns pid plus all of its transitive children, sorted
// ascending. A pid that is not in the Index has no family: the result is
// empty.
func Descendants(idx *Index, pid int) []int {
	if !idx.Contains(pid) {
		return nil
	}
	visited := map[int]bool{pid: true}
	queue := []int{pid}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, kid := range idx.Children(next) {
			if visited[kid] {
				continue
			}
			visited[kid] = true
			queue = append(queue, kid)
		}
	}
	out := make([]int, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Ancestors walks the parent chain upward from pid, nearest parent first,
// stopping at the first pid absent from the Index (root or dangling
// parent). pid itself is not part of the chain.
func Ancestors(idx *Index, pid int) []int {
	p, ok := idx.Get(pid)
	if !ok {
		return nil
	}
	visited := map[int]bool{pid: true}
	var chain []int
	for {
		parent, ok := idx.Get(p.ParentPID)
		if !ok || visited[p.ParentPID] {
			return chain
		}
		visited[p.ParentPID] = true
		chain = append(chain, p.ParentPID)
		p = parent
	}
}

// Siblings returns the other children of pid's parent, sorted ascending.
// The set is empty when the parent is unknown or was filtered out.
func Siblings(idx *Index, pid int) []int {
	p, ok := idx.Get(pid)
	if !ok || p.ParentPID <= 0 {
		return nil
	}
	kids := idx.Children(p.ParentPID)
	out := make([]int, 0, len(kids))
	for _, kid := range kids {
		if kid != pid {
			out = append(out, kid)
		}
	}
	return out
}
