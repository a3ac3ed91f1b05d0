package stac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stac "github.com/stac-utils/go-stac"
	"github.com/stac-utils/go-stac/fetch"
)

// unreachableFetcher fails every fetch, proving a test path never leaves the
// bundled schemas.
type unreachableFetcher struct{}

func (unreachableFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return nil, errors.New("unreachable")
}

func decode(t *testing.T, data string) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &v))
	return v
}

func minimalItem(id string) map[string]any {
	return map[string]any{
		"type":         "Feature",
		"stac_version": "1.0.0",
		"id":           id,
	}
}

func TestValidateMinimalItem(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)
	assert.NoError(t, validator.Validate(context.Background(), minimalItem("an-id")))
}

func TestValidateMinimalCatalogAndCollection(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)
	for _, typeName := range []string{"Catalog", "Collection"} {
		t.Run(typeName, func(t *testing.T) {
			doc := map[string]any{
				"type":         typeName,
				"stac_version": "1.1.0",
				"id":           "an-id",
			}
			assert.NoError(t, validator.Validate(context.Background(), doc))
		})
	}
}

func TestValidateScalarInput(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)

	assert.ErrorIs(t, validator.Validate(context.Background(), "hello"), stac.ErrCannotValidate)
	assert.ErrorIs(t, validator.ValidateBytes(context.Background(), []byte(`"hello"`)), stac.ErrCannotValidate)
	assert.ErrorIs(t, validator.Validate(context.Background(), 42.0), stac.ErrCannotValidate)
}

func TestValidateMissingFields(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)

	err = validator.Validate(context.Background(), map[string]any{"id": "an-id"})
	assert.ErrorIs(t, err, stac.ErrNoType)

	err = validator.Validate(context.Background(), map[string]any{"type": "Feature", "id": "an-id"})
	assert.ErrorIs(t, err, stac.ErrNoVersion)
}

func TestValidateUnknownType(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)

	err = validator.Validate(context.Background(), map[string]any{
		"type":         "Banana",
		"stac_version": "1.0.0",
	})
	var typeErr *stac.UnknownTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "Banana", typeErr.Type)
}

func TestValidateInvalidItemReportsIssues(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)

	doc := decode(t, `{"type": "Feature", "stac_version": "1.0.0", "id": 42}`)
	err = validator.Validate(context.Background(), doc)
	issues, ok := stac.AsIssues(err)
	require.True(t, ok, "expected Issues, got %v", err)
	require.NotEmpty(t, issues)
	assert.Equal(t, "/id", issues[0].Path)
	assert.Contains(t, issues[0].Schema, "item-spec/json-schema/item.json")
}

func TestValidateIssuesAreStable(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)

	doc := decode(t, `{"type": "Feature", "stac_version": "1.0.0", "id": "", "bbox": "nope"}`)
	first := validator.Validate(context.Background(), doc)
	second := validator.Validate(context.Background(), doc)
	firstIssues, ok := stac.AsIssues(first)
	require.True(t, ok)
	secondIssues, ok := stac.AsIssues(second)
	require.True(t, ok)
	assert.Equal(t, firstIssues, secondIssues)
}

const extensionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["gsd"]
}`

func extensionValidator(t *testing.T) *stac.Validator {
	t.Helper()
	validator, err := stac.NewValidator(fetch.Map{
		Contents: map[string][]byte{
			"https://example.com/extensions/gsd/v1.0.0/schema.json": []byte(extensionSchema),
		},
	})
	require.NoError(t, err)
	return validator
}

func TestValidateAggregatesAcrossSchemas(t *testing.T) {
	validator := extensionValidator(t)

	// Fails the core schema (id type) and the extension schema (no gsd); both
	// sets of issues come back in one call.
	doc := decode(t, `{
		"type": "Feature",
		"stac_version": "1.0.0",
		"id": 42,
		"stac_extensions": ["https://example.com/extensions/gsd/v1.0.0/schema.json"]
	}`)
	err := validator.Validate(context.Background(), doc)
	issues, ok := stac.AsIssues(err)
	require.True(t, ok)

	schemas := make(map[string]bool)
	for _, issue := range issues {
		schemas[issue.Schema] = true
	}
	assert.True(t, schemas["https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json"],
		"expected issues from the core schema: %v", issues)
	assert.True(t, schemas["https://example.com/extensions/gsd/v1.0.0/schema.json"],
		"expected issues from the extension schema: %v", issues)
}

func TestValidateExtensionPass(t *testing.T) {
	validator := extensionValidator(t)

	doc := minimalItem("an-id")
	doc["stac_extensions"] = []any{"https://example.com/extensions/gsd/v1.0.0/schema.json"}
	doc["gsd"] = 10.0
	assert.NoError(t, validator.Validate(context.Background(), doc))
}

func TestValidateDuplicateExtensionsResolveOnce(t *testing.T) {
	validator := extensionValidator(t)

	doc := minimalItem("an-id")
	doc["stac_extensions"] = []any{
		"https://example.com/extensions/gsd/v1.0.0/schema.json",
		"https://example.com/extensions/gsd/v1.0.0/schema.json",
	}
	err := validator.Validate(context.Background(), doc)
	issues, ok := stac.AsIssues(err)
	require.True(t, ok)
	// One violation, not two: the duplicate identifier is deduplicated.
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "gsd")
}

func TestValidateSchemaOverrideWinsOverBundled(t *testing.T) {
	// A stricter replacement for a core schema URL: overrides must shadow the
	// bundled copy, not lose to it.
	override := []byte(`{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["type", "stac_version", "id", "extra"]
	}`)
	url := "https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json"
	validator, err := stac.NewValidator(unreachableFetcher{},
		stac.WithSchemaOverrides(map[string][]byte{url: override}))
	require.NoError(t, err)

	err = validator.Validate(context.Background(), minimalItem("an-id"))
	issues, ok := stac.AsIssues(err)
	require.True(t, ok, "expected the override schema to reject the item, got %v", err)
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Message, "extra")

	doc := minimalItem("an-id")
	doc["extra"] = true
	assert.NoError(t, validator.Validate(context.Background(), doc))
}

func TestValidateInvalidSchemaOverride(t *testing.T) {
	_, err := stac.NewValidator(unreachableFetcher{},
		stac.WithSchemaOverrides(map[string][]byte{"https://example.com/bad.json": []byte("{")}))
	require.Error(t, err)
}

func TestValidateFetchErrorPropagates(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)

	doc := minimalItem("an-id")
	doc["stac_extensions"] = []any{"https://example.com/extensions/missing.json"}
	err = validator.Validate(context.Background(), doc)
	var fetchErr *stac.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "https://example.com/extensions/missing.json", fetchErr.URL)
}

func TestValidateItemCollection(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)

	doc := decode(t, `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "stac_version": "1.0.0", "id": "ok"},
			{"type": "Feature", "stac_version": "1.0.0", "id": 42}
		]
	}`)
	err = validator.Validate(context.Background(), doc)
	issues, ok := stac.AsIssues(err)
	require.True(t, ok)
	require.NotEmpty(t, issues)
	assert.Equal(t, "/features/1/id", issues[0].Path)
}

func TestValidateItemCollectionWithoutFeatures(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)
	assert.NoError(t, validator.Validate(context.Background(), decode(t, `{"type": "FeatureCollection"}`)))
}

func TestValidateCollectionsContainer(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)

	doc := decode(t, `{
		"collections": [
			{"type": "Collection", "stac_version": "1.1.0", "id": 42}
		]
	}`)
	err = validator.Validate(context.Background(), doc)
	issues, ok := stac.AsIssues(err)
	require.True(t, ok)
	require.NotEmpty(t, issues)
	assert.Equal(t, "/collections/0/id", issues[0].Path)
}

func TestValidateArrayOfItems(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)

	array := []any{
		minimalItem("one"),
		map[string]any{"type": "Feature", "stac_version": "1.0.0", "id": 42.0},
		minimalItem("three"),
	}
	err = validator.Validate(context.Background(), array)
	issues, ok := stac.AsIssues(err)
	require.True(t, ok)
	require.NotEmpty(t, issues)
	assert.Equal(t, "/1/id", issues[0].Path)
}

func TestValidateArrayMemberFetchErrorAborts(t *testing.T) {
	validator, err := stac.NewValidator(unreachableFetcher{})
	require.NoError(t, err)

	broken := minimalItem("broken")
	broken["stac_extensions"] = []any{"https://example.com/extensions/missing.json"}
	err = validator.Validate(context.Background(), []any{minimalItem("ok"), broken})
	var fetchErr *stac.FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestValidatorsShareACache(t *testing.T) {
	fetcher := &gatedFetcher{}
	cache, err := stac.NewSchemaCache(fetcher, nil)
	require.NoError(t, err)

	first, err := stac.NewValidator(nil, stac.WithSchemaCache(cache))
	require.NoError(t, err)
	second, err := stac.NewValidator(nil, stac.WithSchemaCache(cache))
	require.NoError(t, err)

	// gatedFetcher serves a schema requiring id, which the item carries.
	doc := minimalItem("an-id")
	doc["stac_extensions"] = []any{"https://example.com/ext.json"}
	require.NoError(t, first.Validate(context.Background(), doc))
	require.NoError(t, second.Validate(context.Background(), doc))
	assert.Equal(t, int64(1), fetcher.fetches.Load())
}
