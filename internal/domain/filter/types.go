// Package filter describes ad-hoc list filters as data, so the HTTP layer can
// pass user-built conditions down to repositories without leaking SQL.
package filter

// ComparisonType enumerates the supported comparison operators.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	LessOrEqual    ComparisonType = "lte"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	Contains       ComparisonType = "contains" // ILIKE %val%

	IsNull    ComparisonType = "null"
	IsNotNull ComparisonType = "not_null"
)

// Item is one filter condition.
type Item struct {
	// Field is the column name (snake_case).
	Field string `json:"field"`

	Operator ComparisonType `json:"operator"`

	// Value holds the comparison operand (string, number, or id list).
	Value any `json:"value"`
}
