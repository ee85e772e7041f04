package redirect

// Mapping is the flat short-code → destination-URL table held in the
// configuration record. An empty destination means "not configured yet";
// it is valid data, not an error.
type Mapping map[string]string

// Clone returns a copy of the mapping so callers can't mutate shared state.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DecisionKind classifies the outcome of resolving a short code.
type DecisionKind uint8

const (
	// DecisionRedirect sends the visitor to the operator-configured destination.
	DecisionRedirect DecisionKind = iota
	// DecisionFallback sends the visitor to the static fallback destination.
	DecisionFallback
	// DecisionNotFound rejects the request. Produced for codes outside the
	// known set, and for missing mappings under PolicyNotFound.
	DecisionNotFound
	// DecisionUnavailable surfaces a store failure to the client.
	// Produced only under PolicyNotFound; PolicyFallback absorbs store
	// failures into DecisionFallback.
	DecisionUnavailable
)

// String returns the string representation of the decision kind.
func (k DecisionKind) String() string {
	switch k {
	case DecisionRedirect:
		return "redirect"
	case DecisionFallback:
		return "fallback"
	case DecisionNotFound:
		return "not_found"
	case DecisionUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Decision is the result of resolving one short code. Location is set only
// for DecisionRedirect and DecisionFallback; redirects are always issued
// with a temporary status so clients re-check on every scan.
type Decision struct {
	Kind     DecisionKind
	Location string
}

// MissingPolicy selects how an endpoint treats a missing mapping or an
// unreachable store. One policy applies per resolver instance; a single
// endpoint never mixes both.
type MissingPolicy string

const (
	// PolicyFallback always serves the static fallback destination when the
	// mapping can't produce one. A printed QR code should land somewhere.
	PolicyFallback MissingPolicy = "fallback"
	// PolicyNotFound surfaces missing mappings as 404 and store failures as
	// errors, for deployments that prefer hard failures over silent fallback.
	PolicyNotFound MissingPolicy = "not_found"
)

// Valid reports whether p is a recognized policy.
func (p MissingPolicy) Valid() bool {
	return p == PolicyFallback || p == PolicyNotFound
}
