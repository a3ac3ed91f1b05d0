package stac

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var bundledSchemas embed.FS

// bundledSchemaURLs maps the published URL of each bundled core schema to its
// embedded file. Bundled schemas are trimmed structural schemas; they are
// compiled once at construction so the usual documents validate without any
// fetch.
var bundledSchemaURLs = map[string]string{
	DefaultSchemaBase + "/v1.0.0/item-spec/json-schema/item.json":             "schemas/v1.0.0/item.json",
	DefaultSchemaBase + "/v1.0.0/catalog-spec/json-schema/catalog.json":       "schemas/v1.0.0/catalog.json",
	DefaultSchemaBase + "/v1.0.0/collection-spec/json-schema/collection.json": "schemas/v1.0.0/collection.json",
	DefaultSchemaBase + "/v1.1.0/item-spec/json-schema/item.json":             "schemas/v1.1.0/item.json",
	DefaultSchemaBase + "/v1.1.0/catalog-spec/json-schema/catalog.json":       "schemas/v1.1.0/catalog.json",
	DefaultSchemaBase + "/v1.1.0/collection-spec/json-schema/collection.json": "schemas/v1.1.0/collection.json",
}

// Fetcher retrieves the raw bytes of a schema. Implementations live in the
// fetch package; tests inject their own. A Fetcher must be safe for
// concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// cacheEntry is the shared future every concurrent caller for one URL
// attaches to. It resolves exactly once: schema and err are written before
// done is closed and never after.
type cacheEntry struct {
	done   chan struct{}
	schema *jsonschema.Schema
	err    error
}

// SchemaCache is a process-lifetime cache from schema URL to compiled schema.
// Concurrent callers for the same URL share a single underlying fetch; the
// mutex guards only the entry map, never a fetch, so distinct URLs proceed in
// parallel.
type SchemaCache struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewSchemaCache creates a cache pre-populated with the bundled core schemas.
// Schemas for every other URL are retrieved through fetcher on first use.
func NewSchemaCache(fetcher Fetcher, logger *slog.Logger) (*SchemaCache, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &SchemaCache{
		fetcher: fetcher,
		logger:  logger,
		entries: make(map[string]*cacheEntry),
	}
	for url, path := range bundledSchemaURLs {
		data, err := fs.ReadFile(bundledSchemas, path)
		if err != nil {
			return nil, fmt.Errorf("stac: reading bundled schema %s: %w", path, err)
		}
		if err := c.AddSchema(url, data); err != nil {
			return nil, fmt.Errorf("stac: compiling bundled schema %s: %w", path, err)
		}
	}
	return c, nil
}

// AddSchema compiles data and caches it as the schema for url, replacing any
// existing entry, bundled ones included. It lets callers serve a schema from
// bytes they already hold instead of fetching it.
func (c *SchemaCache) AddSchema(url string, data []byte) error {
	schema, err := compileData(url, data)
	if err != nil {
		return err
	}
	entry := &cacheEntry{done: make(chan struct{}), schema: schema}
	close(entry.done)
	c.mu.Lock()
	c.entries[url] = entry
	c.mu.Unlock()
	return nil
}

// GetOrFetch returns the compiled schema for url, fetching and compiling it
// at most once no matter how many callers ask concurrently. The first caller
// for an unseen URL starts the fetch; everyone else waits on the same entry
// and observes the identical outcome.
//
// A fetch failure is delivered to every waiter of that attempt and the entry
// is evicted, so a later call retries rather than inheriting a permanent
// failure.
func (c *SchemaCache) GetOrFetch(ctx context.Context, url string) (*jsonschema.Schema, error) {
	c.mu.Lock()
	entry, ok := c.entries[url]
	if !ok {
		entry = &cacheEntry{done: make(chan struct{})}
		c.entries[url] = entry
		// The fetch runs on a detached context: a caller abandoning the wait
		// must not abort a fetch other waiters depend on. The result still
		// lands in the cache.
		go c.fetch(context.WithoutCancel(ctx), url, entry)
	}
	c.mu.Unlock()

	select {
	case <-entry.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if entry.err != nil {
		return nil, entry.err
	}
	return entry.schema, nil
}

// fetch resolves entry exactly once. Ready entries stay in the map for the
// process lifetime; failed ones are removed before the waiters wake.
func (c *SchemaCache) fetch(ctx context.Context, url string, entry *cacheEntry) {
	c.logger.Debug("fetching schema", "url", url)
	schema, err := c.compile(ctx, url)
	if err != nil {
		c.logger.Debug("schema fetch failed", "url", url, "error", err)
		entry.err = &FetchError{URL: url, Err: err}
		c.mu.Lock()
		delete(c.entries, url)
		c.mu.Unlock()
	} else {
		entry.schema = schema
	}
	close(entry.done)
}

func (c *SchemaCache) compile(ctx context.Context, url string) (*jsonschema.Schema, error) {
	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	// References inside the schema resolve through the same fetch capability.
	compiler.LoadURL = func(ref string) (io.ReadCloser, error) {
		if path, ok := bundledSchemaURLs[ref]; ok {
			return bundledSchemas.Open(path)
		}
		data, err := c.fetcher.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

func compileData(url string, data []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}
