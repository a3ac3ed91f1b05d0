package stac

import "fmt"

// Type identifies the kind of STAC object a document describes. The JSON
// `type` field uses the GeoJSON spellings ("Feature", "FeatureCollection"),
// not the STAC names.
type Type int

const (
	// Item is a GeoJSON Feature carrying STAC metadata.
	Item Type = iota
	// Catalog groups other catalogs, collections, and items via links.
	Catalog
	// Collection is a catalog with additional required metadata such as
	// extent and license.
	Collection
	// ItemCollection is a GeoJSON FeatureCollection of items. It has no
	// schema of its own; its features are validated individually.
	ItemCollection
)

// UnknownTypeError is returned when a document's `type` field is not one of
// the STAC object types.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("stac: unknown type %q", e.Type)
}

// ParseType parses the JSON `type` field value.
func ParseType(s string) (Type, error) {
	switch s {
	case "Feature":
		return Item, nil
	case "Catalog":
		return Catalog, nil
	case "Collection":
		return Collection, nil
	case "FeatureCollection":
		return ItemCollection, nil
	default:
		return 0, &UnknownTypeError{Type: s}
	}
}

// String returns the JSON `type` field spelling.
func (t Type) String() string {
	switch t {
	case Item:
		return "Feature"
	case Catalog:
		return "Catalog"
	case Collection:
		return "Collection"
	case ItemCollection:
		return "FeatureCollection"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// specPath returns the path of the type's core schema under the schema base
// URL, or "" for ItemCollection, which has no schema of its own.
func (t Type) specPath(version Version) string {
	switch t {
	case Item:
		return fmt.Sprintf("/v%s/item-spec/json-schema/item.json", version)
	case Catalog:
		return fmt.Sprintf("/v%s/catalog-spec/json-schema/catalog.json", version)
	case Collection:
		return fmt.Sprintf("/v%s/collection-spec/json-schema/collection.json", version)
	default:
		return ""
	}
}
