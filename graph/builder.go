package graph

// Builder accumulates vertices and edges and produces an immutable Graph.
// The builder is not concurrent-safe: construction must complete before any
// solver sees the resulting Graph, matching the teacher's package-level
// `graph`/`addEdge` construction phase in core/amm.go, generalized into an
// explicit type so invariants are enforced by the builder (at AddVertex,
// AddEdge and Build) instead of left implicit in a global.
type Builder struct {
	vertices  map[TokenKey]TokenAttrs
	adjacency map[TokenKey][]Edge
	order     []TokenKey
	edgeCount int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		vertices:  make(map[TokenKey]TokenAttrs),
		adjacency: make(map[TokenKey][]Edge),
	}
}

// AddVertex registers key with the given attributes. It fails with
// ErrDuplicateVertex if key was already added.
func (b *Builder) AddVertex(key TokenKey, attrs TokenAttrs) error {
	if _, exists := b.vertices[key]; exists {
		return ErrDuplicateVertex
	}
	b.vertices[key] = attrs
	b.order = append(b.order, key)
	return nil
}

// AddEdge adds a directed edge from `from` to e.Target. from must already be
// a registered vertex (the target is validated at Build time, so that
// vertices and their edges may be added in any interleaving). Self-loops and
// structurally invalid pools/bridges are rejected immediately.
func (b *Builder) AddEdge(from TokenKey, e Edge) error {
	if _, ok := b.vertices[from]; !ok {
		return ErrDanglingEdge
	}
	if from == e.Target {
		return ErrSelfLoop
	}
	switch e.Kind {
	case Swap:
		if e.Pool != nil {
			if err := validatePool(e.Pool); err != nil {
				return err
			}
		}
	case Bridge:
		if e.Pool != nil {
			return ErrInvalidBridge
		}
		if e.BridgeFeeFraction < 0 || e.BridgeFeeFraction >= 1 {
			return ErrInvalidBridge
		}
		if e.TimeDelaySeconds < 0 {
			return ErrInvalidBridge
		}
	default:
		return ErrUnknownEdgeKind
	}
	b.adjacency[from] = append(b.adjacency[from], e)
	b.edgeCount++
	return nil
}

func validatePool(p *LiquidityPool) error {
	if p.ReserveBase <= 0 || p.ReserveQuote <= 0 {
		return ErrInvalidPool
	}
	if p.FeeFraction < 0 || p.FeeFraction > 0.05 {
		return ErrInvalidPool
	}
	switch p.Kind {
	case ConstantProduct, StableSwap, Concentrated:
	default:
		return ErrInvalidPool
	}
	return nil
}

// Build validates every edge target resolves to a known vertex (P9) and
// returns the immutable Graph. The Builder may be reused after Build; later
// mutations do not affect Graphs already returned.
func (b *Builder) Build() (*Graph, error) {
	for _, key := range b.order {
		for _, e := range b.adjacency[key] {
			if !b.containsVertex(e.Target) {
				return nil, ErrDanglingEdge
			}
		}
	}
	g := &Graph{
		vertices:  make(map[TokenKey]TokenAttrs, len(b.vertices)),
		adjacency: make(map[TokenKey][]Edge, len(b.adjacency)),
		edgeCount: b.edgeCount,
	}
	for k, v := range b.vertices {
		g.vertices[k] = v
	}
	for k, edges := range b.adjacency {
		cp := make([]Edge, len(edges))
		copy(cp, edges)
		g.adjacency[k] = cp
	}
	return g, nil
}

func (b *Builder) containsVertex(key TokenKey) bool {
	_, ok := b.vertices[key]
	return ok
}
