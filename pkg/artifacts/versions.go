package artifacts

// Versions pins the internal tools the runner may add.
type Versions struct {
	TestRunner string `toml:"test_runner" json:"test_runner"`
	Runner     string `toml:"runner" json:"runner"`
	Stubs      string `toml:"stubs" json:"stubs"`
	JMH        string `toml:"jmh" json:"jmh"`
	JSCLI      string `toml:"js_cli" json:"js_cli"`
	NativeCLI  string `toml:"native_cli" json:"native_cli"`
}

// DefaultVersions returns the versions used when none are configured.
func DefaultVersions() Versions {
	return Versions{
		TestRunner: "1.4.0",
		Runner:     "1.4.0",
		Stubs:      "1.4.0",
		JMH:        "1.37",
		JSCLI:      "1.16.0.1",
		NativeCLI:  "0.4.17",
	}
}

// withDefaults fills empty fields from DefaultVersions.
func (v Versions) withDefaults() Versions {
	d := DefaultVersions()
	if v.TestRunner == "" {
		v.TestRunner = d.TestRunner
	}
	if v.Runner == "" {
		v.Runner = d.Runner
	}
	if v.Stubs == "" {
		v.Stubs = d.Stubs
	}
	if v.JMH == "" {
		v.JMH = d.JMH
	}
	if v.JSCLI == "" {
		v.JSCLI = d.JSCLI
	}
	if v.NativeCLI == "" {
		v.NativeCLI = d.NativeCLI
	}
	return v
}
