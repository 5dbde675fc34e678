package buildconfig

import "fmt"

// FilenamePolicy names every emitted artifact. Development builds get stable
// literal names, production builds embed the compilation hash.
type FilenamePolicy struct {
	mode Mode
	hash string
}

func NewFilenamePolicy(mode Mode, hash string) FilenamePolicy {
	return FilenamePolicy{mode: mode, hash: hash}
}

// Filename returns "name.ext" in development and "name.hash.ext" in production.
func (p FilenamePolicy) Filename(name, ext string) string {
	if p.mode.IsDev() || p.hash == "" {
		return fmt.Sprintf("%s.%s", name, ext)
	}
	return fmt.Sprintf("%s.%s.%s", name, p.hash, ext)
}
