package stac

// Version is a version of the STAC specification. Values that are not one of
// the known constants are carried verbatim; they validate against whatever
// schema their URL resolves to but never participate in a migration.
type Version string

const (
	// V1_0_0 is STAC v1.0.0.
	V1_0_0 Version = "1.0.0"
	// V1_1_0_Beta_1 is STAC v1.1.0-beta.1.
	V1_1_0_Beta_1 Version = "1.1.0-beta.1"
	// V1_1_0 is STAC v1.1.0.
	V1_1_0 Version = "1.1.0"
)

// DefaultVersion is the version new documents are written at.
const DefaultVersion = V1_1_0

// versionOrder is the total order over known versions, ascending.
var versionOrder = []Version{V1_0_0, V1_1_0_Beta_1, V1_1_0}

func (v Version) String() string { return string(v) }

// KnownVersions returns the known versions in ascending order.
func KnownVersions() []Version {
	out := make([]Version, len(versionOrder))
	copy(out, versionOrder)
	return out
}

// Known reports whether v is one of the versions in the total order.
func (v Version) Known() bool {
	return v.index() >= 0
}

func (v Version) index() int {
	for i, w := range versionOrder {
		if v == w {
			return i
		}
	}
	return -1
}
