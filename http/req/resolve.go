package req

// A ResolutionKind tags how a Resolution picked its Group.
type ResolutionKind int

const (
	// Unconstrained means no Group was declared, so nothing is required.
	Unconstrained ResolutionKind = iota

	// Matched means the Group is the first with any of its properties present.
	Matched

	// Fallback means no Group had any property present,
	// so the last one declared is required.
	Fallback
)

func (k ResolutionKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case Fallback:
		return "fallback"
	default:
		return "unconstrained"
	}
}

// A Resolution is the Group a set of values is attempting to satisfy.
type Resolution struct {
	Kind ResolutionKind

	// Index of Group among the candidates passed to Resolve; -1 when Unconstrained.
	Index int
	Group Group
}

// Resolve picks which of groups the values are attempting to satisfy.
//
// Groups are scanned in order and the first with at least one property present in values wins.
// If none has any present, the last group is the requirement.
// Without any groups, the Resolution is Unconstrained.
func Resolve(groups []Group, values map[string]any) Resolution {
	if len(groups) == 0 {
		return Resolution{Kind: Unconstrained, Index: -1}
	}

	for i, g := range groups {
		for _, p := range g.Properties {
			if _, ok := lookup(values, p.Name); ok {
				return Resolution{Kind: Matched, Index: i, Group: g}
			}
		}
	}

	last := len(groups) - 1
	return Resolution{Kind: Fallback, Index: last, Group: groups[last]}
}

// Check reports, in declaration order, the properties of the resolved Group
// that are absent from values and those present with the wrong type.
//
// values are typed the way [PropertyType.Accepts] types them.
func (res Resolution) Check(values map[string]any) (missing, invalidType []string) {
	return res.check(values, PropertyType.Accepts)
}

// CheckDecoded is Check for values decoded from a JSON body,
// typed the way [PropertyType.AcceptsDecoded] types them.
func (res Resolution) CheckDecoded(values map[string]any) (missing, invalidType []string) {
	return res.check(values, PropertyType.AcceptsDecoded)
}

func (res Resolution) check(values map[string]any, accepts func(PropertyType, any) bool) (missing, invalidType []string) {
	for _, p := range res.Group.Properties {
		v, ok := lookup(values, p.Name)
		if !ok {
			missing = append(missing, p.Name)
			continue
		}

		if !accepts(p.Type, v) {
			invalidType = append(invalidType, p.Name)
		}
	}

	return missing, invalidType
}

// lookup retrieves name from values, treating nil values as absent.
func lookup(values map[string]any, name string) (any, bool) {
	v, ok := values[name]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}
