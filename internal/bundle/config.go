package bundle

// Config is the load declaration of one bundle.
type Config struct {
	Name              string   `json:"name" yaml:"name"`
	LoadAfter         []string `json:"load_after,omitempty" yaml:"load_after,omitempty"`
	Replace           []string `json:"replace,omitempty" yaml:"replace,omitempty"`
	LoadInProduction  bool     `json:"load_in_production" yaml:"load_in_production"`
	LoadInDevelopment bool     `json:"load_in_development" yaml:"load_in_development"`
}

// NewConfig returns a declaration for name that loads in both environments.
func NewConfig(name string) *Config {
	return &Config{Name: name, LoadInProduction: true, LoadInDevelopment: true}
}

func (c *Config) WithLoadAfter(names ...string) *Config {
	c.LoadAfter = append(c.LoadAfter, names...)
	return c
}

func (c *Config) WithReplace(names ...string) *Config {
	c.Replace = append(c.Replace, names...)
	return c
}

// DevelopmentOnly excludes the bundle from production.
func (c *Config) DevelopmentOnly() *Config {
	c.LoadInProduction = false
	c.LoadInDevelopment = true
	return c
}

// ProductionOnly excludes the bundle from development.
func (c *Config) ProductionOnly() *Config {
	c.LoadInDevelopment = false
	c.LoadInProduction = true
	return c
}

// LoadsIn reports whether the bundle applies to the given environment.
func (c *Config) LoadsIn(development bool) bool {
	if development {
		return c.LoadInDevelopment
	}
	return c.LoadInProduction
}

// Configs is an ordered list of declarations.
type Configs []*Config

func (cs Configs) Names() []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}
