// Package reference loads the two lookup tables that drive cleaning.
//
// The missing-value table lists, per attribute, the codes that stand for
// "unknown" in the raw extract. The type-action table declares each
// attribute's type (binary, numeric, categorical) and an optional action
// (drop, onehot). Both are read from CSV; the missing-value table can also be
// rebuilt from the attribute values workbook with BuildMissingValuesFromWorkbook.
//
// Tables are immutable after loading and may be shared between concurrent runs.
package reference
