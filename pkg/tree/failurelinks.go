package tree

// buildFailureLinks precomputes every node's wildcard fall-through edge
// for a SINGLE tree (spec §4.4): the root's failure is none; a
// non-wildcard child's failure is its parent's wildcard child, or (absent
// one) the parent's own failure link; a wildcard child's failure is its
// parent's failure link. This lets a mismatched specific value drop to
// the wildcard sub-tree without backtracking.
func buildFailureLinks(root *Node) {
	root.FailureChild = nil
	assignChildFailureLinks(root)
}

func assignChildFailureLinks(n *Node) {
	var wildcardChild *Node
	for _, c := range n.Children {
		if isWildcardDriver(c.Driver) {
			wildcardChild = c
			break
		}
	}

	for _, c := range n.Children {
		if isWildcardDriver(c.Driver) {
			c.FailureChild = n.FailureChild
		} else if wildcardChild != nil {
			c.FailureChild = wildcardChild
		} else {
			c.FailureChild = n.FailureChild
		}
		assignChildFailureLinks(c)
	}
}
