package stac

// DefaultSchemaBase is where the core schemas for each (type, version) pair
// are published.
const DefaultSchemaBase = "https://schemas.stacspec.org"

// resolveSchemaURLs returns the ordered list of schema URLs that must all
// validate a document of the given type and version: the core schema first,
// then one URL per distinct extension identifier in declaration order.
//
// Extension identifiers are passed through opaque; an unreachable one fails
// later, at fetch time, rather than here.
func resolveSchemaURLs(base string, typ Type, version Version, extensions []string) []string {
	urls := make([]string, 0, 1+len(extensions))
	if path := typ.specPath(version); path != "" {
		urls = append(urls, base+path)
	}
	seen := make(map[string]struct{}, len(urls)+len(extensions))
	for _, u := range urls {
		seen[u] = struct{}{}
	}
	for _, ext := range extensions {
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		urls = append(urls, ext)
	}
	return urls
}
