// Package hitfeed selects the "Hit" posts: a bounded, score ranked and role
// diverse subset of a larger post pool.
package hitfeed

// Config bounds a single ranking pass.
type Config struct {
	// Limit is the maximum number of posts selected. Zero or less selects nothing.
	Limit int `mapstructure:"limit" json:"limit"`
	// PerUserCap is the maximum number of posts by one author. Zero disables it.
	PerUserCap int `mapstructure:"per_user_cap" json:"per_user_cap"`
	// PerRoleRatio caps posts of one user type at ceil(Limit*PerRoleRatio).
	// Zero disables it.
	PerRoleRatio float64 `mapstructure:"per_role_ratio" json:"per_role_ratio"`
	// AlternateTypes refuses a text or audio post right after a selected
	// post of the same type.
	AlternateTypes bool `mapstructure:"alternate_types" json:"alternate_types"`
}

var (
	// HomeConfig is the compact Hit strip on the home page.
	HomeConfig = Config{Limit: 20, PerUserCap: 2, PerRoleRatio: 0.45, AlternateTypes: true}
	// HitPageConfig is the dedicated Hit feed page.
	HitPageConfig = Config{Limit: 60, PerUserCap: 3, PerRoleRatio: 0.5, AlternateTypes: true}
)

// WithLimit returns a copy of c selecting at most n posts.
func (c Config) WithLimit(n int) Config {
	c.Limit = n
	return c
}

// Preset returns a named configuration: "home" or "hit".
func Preset(name string) (Config, bool) {
	switch name {
	case "home":
		return HomeConfig, true
	case "hit", "hitfeed":
		return HitPageConfig, true
	}
	return Config{}, false
}
