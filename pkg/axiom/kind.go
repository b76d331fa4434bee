package axiom

// Kind enumerates every axiom form, general and normal.
type Kind uint8

const (
	KindUnknown Kind = iota

	// Normal forms
	KindGCI0
	KindGCI1
	KindGCI2
	KindGCI3
	KindRI1
	KindRI2
	KindRI3
	KindFunctional
	KindTransitive
	KindRange
	KindNominal

	// General forms
	KindSubClassOf
	KindEquivalentClasses
	KindDisjointClasses
	KindSubPropertyOf
	KindEquivalentProperties
	KindInverseProperties
	KindReflexiveProperty
	KindTransitiveProperty
	KindFunctionalProperty
	KindInverseFunctionalProperty
	KindPropertyDomain
	KindPropertyRange
	KindClassAssertion
	KindPropertyAssertion
	KindSameIndividual
	KindDifferentIndividuals
)

var kindNames = map[Kind]string{
	KindGCI0:                      "GCI0",
	KindGCI1:                      "GCI1",
	KindGCI2:                      "GCI2",
	KindGCI3:                      "GCI3",
	KindRI1:                       "RI1",
	KindRI2:                       "RI2",
	KindRI3:                       "RI3",
	KindFunctional:                "Functional",
	KindTransitive:                "Transitive",
	KindRange:                     "Range",
	KindNominal:                   "Nominal",
	KindSubClassOf:                "SubClassOf",
	KindEquivalentClasses:         "EquivalentClasses",
	KindDisjointClasses:           "DisjointClasses",
	KindSubPropertyOf:             "SubPropertyOf",
	KindEquivalentProperties:      "EquivalentProperties",
	KindInverseProperties:         "InverseProperties",
	KindReflexiveProperty:         "ReflexiveProperty",
	KindTransitiveProperty:        "TransitiveProperty",
	KindFunctionalProperty:        "FunctionalProperty",
	KindInverseFunctionalProperty: "InverseFunctionalProperty",
	KindPropertyDomain:            "PropertyDomain",
	KindPropertyRange:             "PropertyRange",
	KindClassAssertion:            "ClassAssertion",
	KindPropertyAssertion:         "PropertyAssertion",
	KindSameIndividual:            "SameIndividual",
	KindDifferentIndividuals:      "DifferentIndividuals",
}

// String returns the axiom kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsNormal reports whether the kind is one of the normal forms
func (k Kind) IsNormal() bool {
	return k >= KindGCI0 && k <= KindNominal
}
