package stac

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for input that cannot be classified at all. They are fatal
// for the call that produced them; nothing about the input is cached.
var (
	// ErrCannotValidate is returned when the input is neither a JSON object
	// nor an array of objects.
	ErrCannotValidate = errors.New("stac: cannot validate a value that is not an object or an array of objects")
	// ErrNoType is returned when an object has no `type` field.
	ErrNoType = errors.New("stac: no type field")
	// ErrNoVersion is returned when an object has no `stac_version` field.
	ErrNoVersion = errors.New("stac: no stac_version field")
)

// Issue is a single schema violation.
type Issue struct {
	// Path is a JSON Pointer into the validated document (for example
	// /features/2/assets/thumbnail).
	Path string `json:"path"`
	// SchemaPath is a JSON Pointer into the schema that reported the
	// violation.
	SchemaPath string `json:"schemaPath,omitempty"`
	// Message describes the violation.
	Message string `json:"message"`
	// Schema is the URL of the schema that reported the violation.
	Schema string `json:"schema,omitempty"`
}

// Issues is a collection of schema violations that implements error. A
// validation call reports every violation from every applicable schema in one
// Issues value; it never truncates to the first failure.
type Issues []Issue

// Error reports the issue count followed by the leading violations; long
// lists are elided.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation issue", len(iss))
	if len(iss) > 1 {
		b.WriteByte('s')
	}
	b.WriteString(": ")
	for i, issue := range iss {
		if i == 3 {
			b.WriteString(", ...")
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		path := issue.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(&b, "%s (%s)", issue.Message, path)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// prefixed returns the issues with p prepended to every instance path, for
// tagging members of bulk inputs.
func (iss Issues) prefixed(p string) Issues {
	out := make(Issues, len(iss))
	for i, issue := range iss {
		issue.Path = p + issue.Path
		out[i] = issue
	}
	return out
}

// FetchError reports a failure to retrieve or compile a schema. It is
// transient: the cache never retains a failed fetch, so a later call retries.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("stac: fetching schema %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UnsupportedMigrationError reports that no migration path exists between two
// versions, e.g. when either endpoint is not a known version or no step is
// defined in the required direction.
type UnsupportedMigrationError struct {
	From Version
	To   Version
}

func (e *UnsupportedMigrationError) Error() string {
	return fmt.Sprintf("stac: unsupported migration: %s to %s", e.From, e.To)
}

// StructuralMigrationError reports that a migration step's preconditions were
// not met by the document, e.g. parallel band arrays of different lengths.
// The migration is abandoned with no partial result.
type StructuralMigrationError struct {
	From   Version
	To     Version
	Reason string
}

func (e *StructuralMigrationError) Error() string {
	return fmt.Sprintf("stac: migrating %s to %s: %s", e.From, e.To, e.Reason)
}
