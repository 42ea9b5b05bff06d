// Package shared holds code used across the surveyprep packages that belongs
// to no single layer.
//
// testutil provides the survey fixture extract, its two reference tables and a
// capturing slog handler for asserting on log output.
package shared
