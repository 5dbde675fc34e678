package assets

// ReloadPath is the server-sent-events endpoint the live reload client listens on.
const ReloadPath = "/__sitepack/reload"

type Config struct {
	// URL prefix under which the output directory is served
	PublicPath string
	// Whether to write gzip siblings for text outputs in production builds
	Precompress bool
	// Dart Sass binary used for .scss/.sass sources, empty means "sass" on PATH
	SassBinary string
	// Name of the manifest written to the output directory
	ManifestName string
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		PublicPath:   "/",
		ManifestName: "manifest.json",
	}
}
