package domain

import (
	"fmt"
	"strings"
)

// Variant selects the dataset-specific column handling of a transform run.
type Variant string

const (
	// VariantGeneral is the general population extract; it takes the base path.
	VariantGeneral Variant = "general"
	// VariantCustomer is the customer extract; it carries three customer-only columns.
	VariantCustomer Variant = "customer"
	// VariantLabeled is the marketing-response extract; it carries the response label.
	VariantLabeled Variant = "labeled"
)

// Variants lists every supported variant in a stable order
func Variants() []Variant {
	return []Variant{VariantGeneral, VariantCustomer, VariantLabeled}
}

// IsValid reports whether v is a known variant
func (v Variant) IsValid() bool {
	switch v {
	case VariantGeneral, VariantCustomer, VariantLabeled:
		return true
	}
	return false
}

// String implements fmt.Stringer
func (v Variant) String() string {
	return string(v)
}

// ParseVariant parses a variant name. The names used by the original extracts
// ("azdias" for the population file, "mailout" for the response file) are accepted
// as aliases.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general", "azdias":
		return VariantGeneral, nil
	case "customer", "customers":
		return VariantCustomer, nil
	case "labeled", "labelled", "mailout":
		return VariantLabeled, nil
	}
	return "", fmt.Errorf("unknown dataset variant %q (want one of general, customer, labeled)", s)
}
