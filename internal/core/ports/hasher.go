package ports

// Hasher computes content fingerprints for task outputs.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// OutputFingerprint computes a stable fingerprint over the given
	// output files, resolved relative to dir. Missing files contribute a
	// distinct marker rather than failing, so that a deleted output
	// invalidates the fingerprint.
	OutputFingerprint(dir string, outputs []string) (string, error)
}
