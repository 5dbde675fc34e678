package buildconfig

// Mode selects development or production behaviour for a build.
type Mode string

const (
	Development Mode = "development"
	Production  Mode = "production"
)

// ParseMode classifies a NODE_ENV style value. Only the exact literal
// "development" selects development; anything else, including the empty
// string, is production.
func ParseMode(s string) Mode {
	if s == string(Development) {
		return Development
	}
	return Production
}

func (m Mode) IsDev() bool {
	return m == Development
}

func (m Mode) IsProd() bool {
	return !m.IsDev()
}

func (m Mode) String() string {
	return string(m)
}
