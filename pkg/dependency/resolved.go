package dependency

// ModuleID is a concrete module coordinate.
type ModuleID struct {
	Org  string `json:"org"`
	Name string `json:"name"`
}

// String returns "org:name".
func (m ModuleID) String() string { return m.Org + ":" + m.Name }

// Resolved is a concrete dependency ready to be handed to a resolution engine.
type Resolved struct {
	Module     ModuleID
	Version    string
	Attributes Attributes
	URL        *URLOverride
}

// String returns "org:name:version".
func (r Resolved) String() string { return r.Module.String() + ":" + r.Version }

// Pin forces a module to a version, overriding whatever the resolution graph
// would otherwise select.
type Pin struct {
	Module  ModuleID
	Version string
}

// String returns "org:name:version".
func (p Pin) String() string { return p.Module.String() + ":" + p.Version }

// PinMap indexes pins by module. Later pins override earlier ones for the
// same module.
func PinMap(pins []Pin) map[ModuleID]string {
	m := make(map[ModuleID]string, len(pins))
	for _, p := range pins {
		m[p.Module] = p.Version
	}
	return m
}
