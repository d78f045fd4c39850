package unit

// Node produces audio on demand.
type Node interface {
	// Render returns frames frames per channel. The returned buffers are
	// owned by the node and valid until the next Render call.
	Render(frames int) ([][]float64, error)
	Channels() int
}

// Input is a node that pulls from one upstream node.
type Input interface {
	SetInput(src Node)
}

// Upstream is implemented by nodes that can report their inputs, which lets
// Connect reject cycles.
type Upstream interface {
	Inputs() []Node
}

// Connect makes src the input of dst.
func Connect(src Node, dst Input) error {
	if src == nil || dst == nil {
		return ErrNilNode
	}
	if dn, ok := dst.(Node); ok && reaches(src, dn) {
		return ErrCycle
	}
	dst.SetInput(src)
	return nil
}

// reaches reports whether target is from or one of its upstream nodes.
func reaches(from, target Node) bool {
	seen := make(map[Node]bool)
	stack := []Node{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		if up, ok := n.(Upstream); ok {
			for _, in := range up.Inputs() {
				if in != nil {
					stack = append(stack, in)
				}
			}
		}
	}
	return false
}
