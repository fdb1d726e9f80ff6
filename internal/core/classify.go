package core

import "strings"

// Field is a canonical price-list column.
type Field int

const (
	FieldDiscard Field = iota
	FieldName
	FieldPrice
	FieldWeight
)

// CanonicalFields lists the canonical fields in schema order.
var CanonicalFields = []Field{FieldName, FieldPrice, FieldWeight}

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldPrice:
		return "price"
	case FieldWeight:
		return "weight"
	default:
		return "discard"
	}
}

// Classify maps a raw CSV header onto a canonical field.
// Matching is an exact, case-insensitive comparison against a fixed synonym
// list after cell cleanup; anything else is FieldDiscard.
func Classify(header string) Field {
	switch strings.ToLower(CleanCell(header)) {
	case "name", "product", "item", "title",
		"название", "продукт", "товар", "наименование":
		return FieldName
	case "price", "retail",
		"цена", "розница":
		return FieldPrice
	case "weight", "mass", "packaging",
		"вес", "масса", "фасовка":
		return FieldWeight
	default:
		return FieldDiscard
	}
}
