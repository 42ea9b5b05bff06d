package domain

// AttributeType is the semantic type an attribute carries in the type-action table
type AttributeType string

const (
	AttributeTypeUnspecified AttributeType = ""
	AttributeTypeBinary      AttributeType = "binary"
	AttributeTypeNumeric     AttributeType = "numeric"
	AttributeTypeCategorical AttributeType = "categorical"
)

// Action is the cleaning action the type-action table assigns to an attribute
type Action string

const (
	ActionNone   Action = ""
	ActionDrop   Action = "drop"
	ActionOneHot Action = "onehot"
)

// AttributeClass is the imputation/encoding class a column is placed in for a run
type AttributeClass string

const (
	ClassCategorical AttributeClass = "categorical"
	ClassBinary      AttributeClass = "binary"
	ClassNumeric     AttributeClass = "numeric"
)
