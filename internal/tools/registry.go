package tools

// Registry holds an insertion-ordered collection of tools and dispatches by
// exact name or by best-scoring intent detection. Grounded on
// original_source/src/tools/registry.rs: a Vec, not a map, so ordering and
// tie-breaking are deterministic — the teacher's own
// internal/tools/tools.go uses a map[string]llm.Tool instead, which is not
// followed here (see DESIGN.md).
type Registry struct {
	tools []Tool
}

// NewRegistry builds the registry with the seven built-in tools in the
// reference implementation's fixed registration order.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewKubectlTool())
	r.Register(NewDockerTool())
	r.Register(NewSQLTool())
	r.Register(NewDrushTool())
	r.Register(NewNginxTool())
	r.Register(NewApache2Tool())
	r.Register(NewNetworkTool())
	return r
}

// Register appends a tool, preserving insertion order.
func (r *Registry) Register(t Tool) {
	r.tools = append(r.tools, t)
}

// Get performs an exact-name lookup.
func (r *Registry) Get(name string) (Tool, bool) {
	for _, t := range r.tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// Detect returns the tool with the highest detect_intent score for input,
// provided that score is at least 0.5. On ties the first-registered tool
// wins: the comparison below only replaces the running best on a strictly
// greater score.
func (r *Registry) Detect(input string) (Tool, bool) {
	const threshold = 0.5
	var best Tool
	bestScore := 0.0
	for _, t := range r.tools {
		score := t.DetectIntent(input)
		if score > bestScore {
			bestScore = score
			best = t
		}
	}
	if best == nil || bestScore < threshold {
		return nil, false
	}
	return best, true
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name()
	}
	return names
}

// All returns every registered tool in registration order.
func (r *Registry) All() []Tool {
	return r.tools
}
