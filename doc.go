// Package stac validates and migrates STAC (SpatioTemporal Asset Catalog)
// documents.
//
// Validation resolves the JSON Schemas for a document's type, version, and
// declared extensions, fetches them through a shared, dedup-ing SchemaCache,
// and reports every violation as Issues (JSON Pointer, message, origin
// schema). Migration rewrites a document between format versions by chaining
// the transform for each adjacent version pair, all-or-nothing.
//
// Design policy:
//   - Keep only public APIs in the root package; put the CLI under cmd/stac
//     and its plumbing under internal/.
//   - Fetching is a capability (Fetcher) injected by the caller;
//     implementations live in fetch/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	v, err := stac.NewValidator(fetch.Default())
//	err = v.Validate(ctx, doc)
//
//	migrated, err := stac.Migrate(doc, stac.V1_1_0)
package stac
