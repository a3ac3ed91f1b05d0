package stac

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator validates STAC documents against the schemas for their type,
// version, and extensions. It is safe for concurrent use; all validators
// sharing a SchemaCache share its fetched schemas.
type Validator struct {
	cache      *SchemaCache
	schemaBase string
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*validatorConfig)

type validatorConfig struct {
	logger     *slog.Logger
	schemaBase string
	cache      *SchemaCache
	overrides  map[string][]byte
}

// WithLogger sets the logger used for schema fetch diagnostics.
func WithLogger(logger *slog.Logger) ValidatorOption {
	return func(c *validatorConfig) {
		c.logger = logger
	}
}

// WithSchemaBase overrides the base URL for core schemas, e.g. to point at a
// mirror.
func WithSchemaBase(base string) ValidatorOption {
	return func(c *validatorConfig) {
		c.schemaBase = base
	}
}

// WithSchemaCache shares an existing cache instead of building a new one.
// WithLogger has no effect on a shared cache.
func WithSchemaCache(cache *SchemaCache) ValidatorOption {
	return func(c *validatorConfig) {
		c.cache = cache
	}
}

// WithSchemaOverrides compiles the given schema documents, keyed by URL, into
// the validator's cache up front. Overrides take precedence over the bundled
// core schemas; on a cache shared through WithSchemaCache they are visible to
// every validator using it.
func WithSchemaOverrides(contents map[string][]byte) ValidatorOption {
	return func(c *validatorConfig) {
		c.overrides = contents
	}
}

// NewValidator creates a validator that retrieves schemas through fetcher.
func NewValidator(fetcher Fetcher, opts ...ValidatorOption) (*Validator, error) {
	config := &validatorConfig{
		schemaBase: DefaultSchemaBase,
	}
	for _, opt := range opts {
		opt(config)
	}
	cache := config.cache
	if cache == nil {
		var err error
		cache, err = NewSchemaCache(fetcher, config.logger)
		if err != nil {
			return nil, err
		}
	}
	for url, data := range config.overrides {
		if err := cache.AddSchema(url, data); err != nil {
			return nil, fmt.Errorf("stac: compiling schema override %s: %w", url, err)
		}
	}
	return &Validator{cache: cache, schemaBase: config.schemaBase}, nil
}

// Validate validates a decoded JSON value: a single STAC object, an array of
// them, or a container with a `features` or `collections` member.
//
// It returns nil when every applicable schema passes, Issues carrying every
// violation from every applicable schema when any fails, ErrCannotValidate /
// ErrNoType / ErrNoVersion when the input cannot be classified, or a
// *FetchError when a required schema cannot be retrieved.
func (v *Validator) Validate(ctx context.Context, value any) error {
	switch value := value.(type) {
	case map[string]any:
		return v.validateObject(ctx, value)
	case []any:
		return v.validateArray(ctx, value, "")
	default:
		return ErrCannotValidate
	}
}

// ValidateBytes decodes raw JSON and validates it.
func (v *Validator) ValidateBytes(ctx context.Context, data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	return v.Validate(ctx, value)
}

// validateArray validates each member independently and unions the issues,
// each still carrying its member's own instance path. Any non-Issues error
// (fetch failure, unclassifiable member) aborts the whole call.
func (v *Validator) validateArray(ctx context.Context, array []any, prefix string) error {
	var issues Issues
	for i, member := range array {
		err := v.Validate(ctx, member)
		if err == nil {
			continue
		}
		memberIssues, ok := AsIssues(err)
		if !ok {
			return err
		}
		issues = append(issues, memberIssues.prefixed(prefix+"/"+strconv.Itoa(i))...)
	}
	if len(issues) > 0 {
		return issues
	}
	return nil
}

func (v *Validator) validateObject(ctx context.Context, object map[string]any) error {
	typeName, ok := object["type"].(string)
	if !ok {
		// A top-level `collections` container has no type of its own; its
		// members are validated individually.
		if collections, ok := object["collections"].([]any); ok {
			return v.validateArray(ctx, collections, "/collections")
		}
		return ErrNoType
	}
	typ, err := ParseType(typeName)
	if err != nil {
		return err
	}
	if typ == ItemCollection {
		if features, ok := object["features"].([]any); ok {
			return v.validateArray(ctx, features, "/features")
		}
		return nil
	}

	versionName, ok := object["stac_version"].(string)
	if !ok {
		return ErrNoVersion
	}

	urls := resolveSchemaURLs(v.schemaBase, typ, Version(versionName), extensions(object))
	var issues Issues
	for _, url := range urls {
		schema, err := v.cache.GetOrFetch(ctx, url)
		if err != nil {
			return err
		}
		// Check every schema even after one fails so the caller sees the
		// complete picture in one call.
		if err := schema.Validate(object); err != nil {
			issues = append(issues, schemaIssues(err, url)...)
		}
	}
	if len(issues) > 0 {
		return issues
	}
	return nil
}

// extensions reads the conventional `stac_extensions` array of identifier
// strings; non-string members are ignored.
func extensions(object map[string]any) []string {
	raw, ok := object["stac_extensions"].([]any)
	if !ok {
		return nil
	}
	exts := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			exts = append(exts, s)
		}
	}
	return exts
}

// schemaIssues flattens a jsonschema validation error into the leaf causes,
// tagging each with the schema it came from.
func schemaIssues(err error, url string) Issues {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return Issues{{Message: err.Error(), Schema: url}}
	}
	var issues Issues
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			issues = append(issues, Issue{
				Path:       e.InstanceLocation,
				SchemaPath: e.KeywordLocation,
				Message:    e.Message,
				Schema:     url,
			})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return issues
}
