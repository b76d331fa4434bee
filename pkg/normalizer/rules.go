package normalizer

import (
	"strings"

	"github.com/dd0wney/cluso-reasoner/pkg/axiom"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

// subClassOf handles Sub ⊑ Sup. Each call performs one rewrite step.
func (n *Normalizer) subClassOf(a axiom.SubClassOf) ([]axiom.Axiom, error) {
	sub, sup := a.Sub, a.Sup
	if axiom.IsBottom(sub) || axiom.IsTop(sup) {
		return nil, nil
	}

	// C ⊑ D1 ⊓ ... ⊓ Dn
	if inter, ok := sup.(axiom.Intersection); ok {
		out := make([]axiom.Axiom, 0, len(inter.Operands))
		for _, op := range inter.Operands {
			out = append(out, axiom.SubClassOf{Sub: sub, Sup: op})
		}
		return out, nil
	}

	if inter, ok := sub.(axiom.Intersection); ok {
		return n.intersectionLHS(inter, sup)
	}

	subID, subExtra, subAtomic, err := n.atom(sub)
	if err != nil {
		return nil, err
	}
	supID, supExtra, supAtomic, err := n.atom(sup)
	if err != nil {
		return nil, err
	}

	switch {
	case subAtomic && supAtomic:
		return append(append(subExtra, supExtra...), axiom.GCI0{Sub: subID, Sup: supID}), nil

	case subAtomic:
		ex, ok := sup.(axiom.Existential)
		if !ok {
			return nil, unsupported(a)
		}
		r, err := n.role(ex.Role)
		if err != nil {
			return nil, err
		}
		fillerID, extra, ok, err := n.atom(ex.Filler)
		if err != nil {
			return nil, err
		}
		if ok {
			out := append(subExtra, extra...)
			return append(out, axiom.GCI2{Sub: subID, Role: r, Filler: fillerID}), nil
		}
		x := n.name(entity.PurposeConcept, ex.Filler)
		return append(subExtra,
			axiom.SubClassOf{Sub: axiom.C(x), Sup: ex.Filler},
			axiom.GCI2{Sub: subID, Role: r, Filler: x},
		), nil

	case supAtomic:
		ex, ok := sub.(axiom.Existential)
		if !ok {
			return nil, unsupported(a)
		}
		r, err := n.role(ex.Role)
		if err != nil {
			return nil, err
		}
		fillerID, extra, ok, err := n.atom(ex.Filler)
		if err != nil {
			return nil, err
		}
		if ok {
			if fillerID == entity.Nothing {
				return supExtra, nil
			}
			out := append(supExtra, extra...)
			return append(out, axiom.GCI3{Role: r, Filler: fillerID, Sup: supID}), nil
		}
		x := n.name(entity.PurposeConcept, ex.Filler)
		return append(supExtra,
			axiom.SubClassOf{Sub: ex.Filler, Sup: axiom.C(x)},
			axiom.GCI3{Role: r, Filler: x, Sup: supID},
		), nil

	default:
		// Both sides complex: split through a fresh name for the left side.
		x := n.name(entity.PurposeConcept, sub)
		return []axiom.Axiom{
			axiom.SubClassOf{Sub: sub, Sup: axiom.C(x)},
			axiom.SubClassOf{Sub: axiom.C(x), Sup: sup},
		}, nil
	}
}

// intersectionLHS handles C1 ⊓ ... ⊓ Cn ⊑ D.
func (n *Normalizer) intersectionLHS(inter axiom.Intersection, sup axiom.Concept) ([]axiom.Axiom, error) {
	flat := flatten(inter.Operands, nil)

	operands := make([]axiom.Concept, 0, len(flat))
	for _, op := range flat {
		if axiom.IsBottom(op) {
			return nil, nil
		}
		if axiom.IsTop(op) {
			continue
		}
		operands = append(operands, op)
	}
	switch len(operands) {
	case 0:
		return []axiom.Axiom{axiom.SubClassOf{Sub: axiom.Top(), Sup: sup}}, nil
	case 1:
		return []axiom.Axiom{axiom.SubClassOf{Sub: operands[0], Sup: sup}}, nil
	}

	supID, supExtra, supAtomic, err := n.atom(sup)
	if err != nil {
		return nil, err
	}
	if !supAtomic {
		x := n.name(entity.PurposeConcept, axiom.Intersection{Operands: operands})
		return []axiom.Axiom{
			axiom.SubClassOf{Sub: axiom.Intersection{Operands: operands}, Sup: axiom.C(x)},
			axiom.SubClassOf{Sub: axiom.C(x), Sup: sup},
		}, nil
	}

	out := supExtra
	ids := make([]entity.ID, 0, len(operands))
	for _, op := range operands {
		id, extra, ok, err := n.atom(op)
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, id)
			out = append(out, extra...)
			continue
		}
		// Push the complex operand out through a fresh name.
		x := n.name(entity.PurposeConcept, op)
		out = append(out, axiom.SubClassOf{Sub: op, Sup: axiom.C(x)})
		ids = append(ids, x)
	}
	return append(out, axiom.NewGCI1(ids, supID)), nil
}

func flatten(ops []axiom.Concept, dst []axiom.Concept) []axiom.Concept {
	for _, op := range ops {
		if inner, ok := op.(axiom.Intersection); ok {
			dst = flatten(inner.Operands, dst)
			continue
		}
		dst = append(dst, op)
	}
	return dst
}

func equivalentClasses(cs []axiom.Concept) []axiom.Axiom {
	if len(cs) < 2 {
		return nil
	}
	out := make([]axiom.Axiom, 0, len(cs))
	for i := range cs {
		out = append(out, axiom.SubClassOf{Sub: cs[i], Sup: cs[(i+1)%len(cs)]})
	}
	return out
}

func disjointClasses(cs []axiom.Concept) []axiom.Axiom {
	var out []axiom.Axiom
	for i := 0; i < len(cs); i++ {
		for j := i + 1; j < len(cs); j++ {
			out = append(out, axiom.SubClassOf{
				Sub: axiom.And(cs[i], cs[j]),
				Sup: axiom.Bottom(),
			})
		}
	}
	return out
}

// subPropertyOf handles role inclusions and chains; chains longer than two are split
// through auxiliary roles naming their prefix.
func (n *Normalizer) subPropertyOf(a axiom.SubPropertyOf) ([]axiom.Axiom, error) {
	sup, err := n.role(a.Sup)
	if err != nil {
		return nil, err
	}
	chain := make([]entity.ID, len(a.Chain))
	for i, r := range a.Chain {
		if chain[i], err = n.role(r); err != nil {
			return nil, err
		}
	}

	switch len(chain) {
	case 0:
		return []axiom.Axiom{axiom.RI1{Role: sup}}, nil
	case 1:
		return []axiom.Axiom{axiom.RI2{Sub: chain[0], Sup: sup}}, nil
	case 2:
		return []axiom.Axiom{axiom.RI3{Left: chain[0], Right: chain[1], Sup: sup}}, nil
	}

	prefix := axiom.SubPropertyOf{Chain: a.Chain[:2]}
	u := n.manager.AuxRole(entity.PurposeChain, chainKey(prefix.Chain))
	rest := make([]axiom.Role, 0, len(a.Chain)-1)
	rest = append(rest, axiom.Named(u))
	rest = append(rest, a.Chain[2:]...)
	return []axiom.Axiom{
		axiom.RI3{Left: chain[0], Right: chain[1], Sup: u},
		axiom.SubPropertyOf{Chain: rest, Sup: a.Sup},
	}, nil
}

func chainKey(chain []axiom.Role) string {
	parts := make([]string, len(chain))
	for i, r := range chain {
		parts[i] = r.String()
	}
	return strings.Join(parts, "∘")
}

func (n *Normalizer) equivalentProperties(roles []axiom.Role) ([]axiom.Axiom, error) {
	if len(roles) < 2 {
		return nil, nil
	}
	out := make([]axiom.Axiom, 0, len(roles))
	for i := range roles {
		sub, err := n.role(roles[i])
		if err != nil {
			return nil, err
		}
		sup, err := n.role(roles[(i+1)%len(roles)])
		if err != nil {
			return nil, err
		}
		out = append(out, axiom.RI2{Sub: sub, Sup: sup})
	}
	return out, nil
}

// inverseProperties registers the inverse pair. When one side already has another
// inverse, the two candidate inverses are declared equivalent.
func (n *Normalizer) inverseProperties(a axiom.InverseProperties) ([]axiom.Axiom, error) {
	for _, r := range []entity.ID{a.First, a.Second} {
		if err := n.manager.Check("normalize", entity.KindRole, r); err != nil {
			return nil, err
		}
	}
	existing, err := n.manager.SetInverse(a.First, a.Second)
	if err == nil {
		return nil, nil
	}
	// existing is the current inverse of whichever side clashed.
	if inv, ok := n.manager.Inverse(a.First); ok && inv == existing {
		return []axiom.Axiom{axiom.RI2{Sub: a.Second, Sup: existing}, axiom.RI2{Sub: existing, Sup: a.Second}}, nil
	}
	return []axiom.Axiom{axiom.RI2{Sub: a.First, Sup: existing}, axiom.RI2{Sub: existing, Sup: a.First}}, nil
}

func (n *Normalizer) propertyRange(a axiom.PropertyRange) ([]axiom.Axiom, error) {
	r, err := n.role(a.Role)
	if err != nil {
		return nil, err
	}
	id, extra, ok, err := n.atom(a.Range)
	if err != nil {
		return nil, err
	}
	if ok {
		return append(extra, axiom.Range{Role: r, Class: id}), nil
	}
	x := n.name(entity.PurposeRange, a.Range)
	return []axiom.Axiom{
		axiom.SubClassOf{Sub: axiom.C(x), Sup: a.Range},
		axiom.Range{Role: r, Class: x},
	}, nil
}

func unsupported(a axiom.Axiom) error {
	return entity.NewError("normalize").Axiom(a.String()).
		Context("unsupported concept shape").Cause(entity.ErrMalformedAxiom).Err()
}
