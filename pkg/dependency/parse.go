package dependency

import (
	"strings"

	"github.com/matzehuels/stackfetch/pkg/errors"
)

// Parse parses a dependency string. See the package documentation for the
// accepted syntax. Failures are ErrCodeInvalidDependency errors.
func Parse(s string) (Dependency, error) {
	s = strings.TrimSpace(s)
	coord, params, _ := strings.Cut(s, ",")

	mod, version, err := parseCoordinate(coord)
	if err != nil {
		return Dependency{}, err
	}
	d := Dependency{Module: mod, Version: version}

	if params != "" {
		if err := applyParams(&d, strings.Split(params, ",")); err != nil {
			return Dependency{}, err
		}
	}
	return d, nil
}

// ParseAll parses every string, collecting all failures into one composite
// error.
func ParseAll(ss []string) ([]Dependency, error) {
	out := make([]Dependency, 0, len(ss))
	var errs []error
	for _, s := range ss {
		d, err := Parse(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, d)
	}
	if err := errors.Combine(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func parseCoordinate(coord string) (Module, string, error) {
	org, rest, ok := strings.Cut(coord, ":")
	if !ok {
		return Module{}, "", errors.New(errors.ErrCodeInvalidDependency,
			"invalid dependency %q (expected org:name:version)", coord)
	}

	var m Module
	m.Org = org
	switch {
	case strings.HasPrefix(rest, "::"):
		m.Cross = CrossFull
		rest = rest[2:]
	case strings.HasPrefix(rest, ":"):
		m.Cross = CrossBinary
		rest = rest[1:]
	}

	name, version, ok := strings.Cut(rest, ":")
	if !ok {
		return Module{}, "", errors.New(errors.ErrCodeInvalidDependency,
			"invalid dependency %q: missing version", coord)
	}
	m.Name = name
	if strings.HasPrefix(version, ":") {
		if m.Cross == CrossNone {
			return Module{}, "", errors.New(errors.ErrCodeInvalidDependency,
				"invalid dependency %q: platform separator requires a Scala module (org::name::version)", coord)
		}
		m.Platform = true
		version = version[1:]
	}

	if err := errors.ValidateModulePart("organization", m.Org); err != nil {
		return Module{}, "", err
	}
	if err := errors.ValidateModulePart("module name", m.Name); err != nil {
		return Module{}, "", err
	}
	if err := errors.ValidateVersion(version); err != nil {
		return Module{}, "", err
	}
	return m, version, nil
}

func applyParams(d *Dependency, params []string) error {
	changing := true
	for _, p := range params {
		key, value, hasValue := strings.Cut(strings.TrimSpace(p), "=")
		switch key {
		case "intransitive":
			d.Attributes.Intransitive = true
		case "classifier":
			d.Attributes.Classifier = value
		case "type":
			d.Attributes.Type = value
		case "url":
			if err := errors.ValidateURL(value); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDependency, err, "invalid url parameter")
			}
			d.URL = &URLOverride{URL: value}
		case "changing":
			changing = !hasValue || value == "true"
		default:
			return errors.New(errors.ErrCodeInvalidDependency, "unknown dependency parameter %q", key)
		}
		if (key == "classifier" || key == "type") && value == "" {
			return errors.New(errors.ErrCodeInvalidDependency, "parameter %q needs a value", key)
		}
	}
	if d.URL != nil {
		d.URL.Changing = changing
	}
	return nil
}
