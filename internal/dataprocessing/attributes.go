package dataprocessing

import (
	"surveyprep/internal/dataset"
	"surveyprep/internal/reference"
	"surveyprep/pkg/contracts/domain"
)

// AttributeSets partitions the working columns into the three imputation
// classes. The sets are disjoint; categorical wins over binary, binary over
// numeric.
type AttributeSets struct {
	Categorical []string
	Binary      []string
	Numeric     []string
	// Unclassified are numeric-class columns the type-action table does not declare
	Unclassified []string

	class    map[string]domain.AttributeClass
	declared map[string]bool
}

// ClassifyAttributes computes the attribute sets for the columns present in
// data. Categorical holds the onehot attributes in table order followed by
// extraCategorical; binary holds the table's binary attributes followed by
// extraBinary; every other column is numeric.
func ClassifyAttributes(data *dataset.Dataset, types *reference.TypeActions, extraCategorical, extraBinary []string) AttributeSets {
	sets := AttributeSets{
		class:    make(map[string]domain.AttributeClass),
		declared: make(map[string]bool),
	}

	add := func(name string, class domain.AttributeClass) {
		if !data.Has(name) {
			return
		}
		if _, taken := sets.class[name]; taken {
			return
		}
		sets.class[name] = class
		switch class {
		case domain.ClassCategorical:
			sets.Categorical = append(sets.Categorical, name)
		case domain.ClassBinary:
			sets.Binary = append(sets.Binary, name)
		}
	}

	for _, name := range types.WithAction(domain.ActionOneHot) {
		add(name, domain.ClassCategorical)
	}
	for _, name := range extraCategorical {
		add(name, domain.ClassCategorical)
	}
	for _, name := range types.WithType(domain.AttributeTypeBinary) {
		add(name, domain.ClassBinary)
		if sets.class[name] == domain.ClassBinary {
			sets.declared[name] = true
		}
	}
	for _, name := range extraBinary {
		add(name, domain.ClassBinary)
	}

	engineered := make(map[string]bool, len(extraCategorical)+len(extraBinary))
	for _, name := range extraCategorical {
		engineered[name] = true
	}
	for _, name := range extraBinary {
		engineered[name] = true
	}

	for _, name := range data.Names() {
		if _, taken := sets.class[name]; taken {
			continue
		}
		sets.class[name] = domain.ClassNumeric
		sets.Numeric = append(sets.Numeric, name)
		if !types.Has(name) && !engineered[name] {
			sets.Unclassified = append(sets.Unclassified, name)
		}
	}
	return sets
}

// ClassOf returns the class of a column
func (s AttributeSets) ClassOf(name string) (domain.AttributeClass, bool) {
	c, ok := s.class[name]
	return c, ok
}

// ScaleTargets returns the columns to min-max scale: the numeric class plus
// the binary attributes declared by the type-action table, minus exclude
func (s AttributeSets) ScaleTargets(exclude []string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var out []string
	for _, name := range s.Binary {
		if s.declared[name] && !skip[name] {
			out = append(out, name)
		}
	}
	for _, name := range s.Numeric {
		if !skip[name] {
			out = append(out, name)
		}
	}
	return out
}
