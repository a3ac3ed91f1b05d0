package stac

import (
	"strings"

	"github.com/goccy/go-json"
)

// migrationStep transforms a document between two adjacent versions. Steps
// are defined statically, forward only: none of the documented transforms is
// invertible, so descending paths are unsupported.
type migrationStep struct {
	from  Version
	to    Version
	apply func(object map[string]any) error
}

var migrationSteps = []migrationStep{
	{from: V1_0_0, to: V1_1_0_Beta_1, apply: migrateV1_0_0ToV1_1_0},
	// No structural changes were made between v1.1.0-beta.1 and v1.1.0.
	{from: V1_1_0_Beta_1, to: V1_1_0, apply: func(map[string]any) error { return nil }},
}

// Migrate returns a copy of document rewritten to conform to the target
// version, chaining the transform for each adjacent version pair on the path.
// Migrating a document to its current version is a no-op that returns an
// independent copy.
//
// The input document is never modified: on failure the caller still holds it
// untouched, and no partially migrated document is ever returned.
func Migrate(document map[string]any, target Version) (map[string]any, error) {
	current := documentVersion(document)
	if current == target {
		return deepCloneObject(document), nil
	}
	steps, err := migrationPath(current, target)
	if err != nil {
		return nil, err
	}
	migrated := deepCloneObject(document)
	for _, step := range steps {
		if err := step.apply(migrated); err != nil {
			return nil, err
		}
	}
	migrated["stac_version"] = target.String()
	return migrated, nil
}

// MigrateBytes decodes raw JSON, migrates it, and re-encodes it.
func MigrateBytes(data []byte, target Version) ([]byte, error) {
	var document map[string]any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, err
	}
	migrated, err := Migrate(document, target)
	if err != nil {
		return nil, err
	}
	return json.Marshal(migrated)
}

func documentVersion(document map[string]any) Version {
	s, _ := document["stac_version"].(string)
	return Version(s)
}

// migrationPath returns the steps between from and to, in application order.
// Either endpoint being outside the known total order, or a missing step in
// the required direction, makes the migration unsupported.
func migrationPath(from, to Version) ([]migrationStep, error) {
	fi, ti := from.index(), to.index()
	if fi < 0 || ti < 0 {
		return nil, &UnsupportedMigrationError{From: from, To: to}
	}
	var steps []migrationStep
	if fi < ti {
		for i := fi; i < ti; i++ {
			step, ok := findStep(versionOrder[i], versionOrder[i+1])
			if !ok {
				return nil, &UnsupportedMigrationError{From: from, To: to}
			}
			steps = append(steps, step)
		}
	} else {
		for i := fi; i > ti; i-- {
			step, ok := findStep(versionOrder[i], versionOrder[i-1])
			if !ok {
				return nil, &UnsupportedMigrationError{From: from, To: to}
			}
			steps = append(steps, step)
		}
	}
	return steps, nil
}

func findStep(from, to Version) (migrationStep, bool) {
	for _, step := range migrationSteps {
		if step.from == from && step.to == to {
			return step, true
		}
	}
	return migrationStep{}, false
}

// migrateV1_0_0ToV1_1_0 applies the v1.0.0 to v1.1.0 rewrite: per-asset band
// merging, self-link href normalization, and license normalization. Fields
// the transform does not recognize pass through unchanged.
func migrateV1_0_0ToV1_1_0(object map[string]any) error {
	if assets, ok := object["assets"].(map[string]any); ok {
		for _, asset := range assets {
			if asset, ok := asset.(map[string]any); ok {
				if err := migrateBands(asset); err != nil {
					return err
				}
			}
		}
	}
	migrateLinks(object)
	properties := object
	if typeName, _ := object["type"].(string); typeName == "Feature" {
		// Items keep their common metadata under properties.
		p, ok := object["properties"].(map[string]any)
		if !ok {
			p = make(map[string]any)
			object["properties"] = p
		}
		properties = p
	}
	migrateLicense(properties)
	return nil
}

// eo:bands keys that move to the unified band object without a prefix.
func bareEOKey(key string) bool {
	return key == "name"
}

// raster:bands keys that move to the unified band object without a prefix.
func bareRasterKey(key string) bool {
	switch key {
	case "nodata", "data_type", "statistics", "unit":
		return true
	}
	return false
}

// migrateBands merges the parallel eo:bands and raster:bands arrays of an
// asset into a single bands array and hoists band properties shared across
// bands up to the asset.
func migrateBands(asset map[string]any) error {
	eo, hasEO := takeBandArray(asset, "eo:bands")
	raster, hasRaster := takeBandArray(asset, "raster:bands")
	if !hasEO && !hasRaster {
		return nil
	}
	if hasEO && hasRaster && len(eo) != len(raster) {
		return &StructuralMigrationError{
			From:   V1_0_0,
			To:     V1_1_0_Beta_1,
			Reason: "eo:bands and raster:bands have different lengths; bands cannot be aligned",
		}
	}

	n := len(eo)
	if len(raster) > n {
		n = len(raster)
	}
	bands := make([]map[string]any, n)
	for i := range bands {
		bands[i] = make(map[string]any)
	}
	for i, band := range eo {
		for key, value := range band {
			if bareEOKey(key) {
				bands[i][key] = value
			} else {
				bands[i]["eo:"+key] = value
			}
		}
	}
	for i, band := range raster {
		for key, value := range band {
			if bareRasterKey(key) {
				bands[i][key] = value
			} else {
				bands[i]["raster:"+key] = value
			}
		}
	}

	hoistSharedBandValues(asset, bands)

	empty := true
	for _, band := range bands {
		if len(band) > 0 {
			empty = false
			break
		}
	}
	if !empty {
		out := make([]any, len(bands))
		for i, band := range bands {
			out[i] = band
		}
		asset["bands"] = out
	}
	return nil
}

// takeBandArray removes key from the asset and returns its object members.
func takeBandArray(asset map[string]any, key string) ([]map[string]any, bool) {
	raw, ok := asset[key].([]any)
	if !ok {
		return nil, false
	}
	delete(asset, key)
	bands := make([]map[string]any, len(raw))
	for i, v := range raw {
		if band, ok := v.(map[string]any); ok {
			bands[i] = band
		} else {
			bands[i] = make(map[string]any)
		}
	}
	return bands, true
}

// hoistSharedBandValues moves a band property to the asset when its most
// common value is shared by more than one band, removing it from the bands
// that carry that value. Bands with a different value keep their own
// override.
func hoistSharedBandValues(asset map[string]any, bands []map[string]any) {
	counts := make(map[string]map[string]int)
	values := make(map[string]any)
	var keys []string
	for _, band := range bands {
		for key, value := range band {
			encoded, err := json.Marshal(value)
			if err != nil {
				continue
			}
			repr := string(encoded)
			if _, ok := values[repr]; !ok {
				values[repr] = value
			}
			if counts[key] == nil {
				counts[key] = make(map[string]int)
				keys = append(keys, key)
			}
			counts[key][repr]++
		}
	}
	for _, key := range keys {
		best, bestCount := "", 0
		for repr, count := range counts[key] {
			if count > bestCount || (count == bestCount && repr < best) {
				best, bestCount = repr, count
			}
		}
		if bestCount < 2 {
			continue
		}
		for _, band := range bands {
			value, ok := band[key]
			if !ok {
				continue
			}
			encoded, err := json.Marshal(value)
			if err != nil || string(encoded) != best {
				continue
			}
			delete(band, key)
			asset[key] = value
		}
	}
}

// migrateLinks rewrites self links with absolute filesystem paths to file://
// URLs, which v1.1.0 requires.
func migrateLinks(object map[string]any) {
	links, ok := object["links"].([]any)
	if !ok {
		return
	}
	for _, link := range links {
		link, ok := link.(map[string]any)
		if !ok {
			continue
		}
		if rel, _ := link["rel"].(string); rel != "self" {
			continue
		}
		if href, _ := link["href"].(string); strings.HasPrefix(href, "/") {
			link["href"] = "file://" + href
		}
	}
}

// migrateLicense normalizes the placeholder license values that v1.1.0
// collapsed into "other".
func migrateLicense(object map[string]any) {
	if license, _ := object["license"].(string); license == "proprietary" || license == "various" {
		object["license"] = "other"
	}
}

// deepCloneObject copies a decoded JSON object so migrations never mutate the
// caller's document.
func deepCloneObject(object map[string]any) map[string]any {
	out := make(map[string]any, len(object))
	for key, value := range object {
		out[key] = deepCloneValue(value)
	}
	return out
}

func deepCloneValue(value any) any {
	switch value := value.(type) {
	case map[string]any:
		return deepCloneObject(value)
	case []any:
		out := make([]any, len(value))
		for i, member := range value {
			out[i] = deepCloneValue(member)
		}
		return out
	default:
		return value
	}
}
