package maven

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

// pomProject is the subset of a POM the resolver reads.
type pomProject struct {
	GroupID      string     `xml:"groupId"`
	ArtifactID   string     `xml:"artifactId"`
	Version      string     `xml:"version"`
	Packaging    string     `xml:"packaging"`
	Parent       *pomParent `xml:"parent"`
	Properties   properties `xml:"properties"`
	Dependencies []pomDep   `xml:"dependencies>dependency"`
	Managed      []pomDep   `xml:"dependencyManagement>dependencies>dependency"`
}

type pomParent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type pomDep struct {
	GroupID    string         `xml:"groupId"`
	ArtifactID string         `xml:"artifactId"`
	Version    string         `xml:"version"`
	Scope      string         `xml:"scope"`
	Optional   string         `xml:"optional"`
	Classifier string         `xml:"classifier"`
	Type       string         `xml:"type"`
	Exclusions []pomExclusion `xml:"exclusions>exclusion"`
}

type pomExclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// properties decodes the free-form <properties> element.
type properties map[string]string

func (p *properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	*p = properties{}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			(*p)[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			return nil
		}
	}
}

func parsePOM(data []byte) (*pomProject, error) {
	var p pomProject
	if err := xml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse pom: %w", err)
	}
	return &p, nil
}

// model is a POM merged with its parents and interpolated.
type model struct {
	Packaging    string `json:"packaging"`
	Dependencies []dep  `json:"dependencies"`
}

// dep is a transitive dependency declared by a model.
type dep struct {
	Org        string      `json:"org"`
	Name       string      `json:"name"`
	Version    string      `json:"version"`
	Classifier string      `json:"classifier,omitempty"`
	Type       string      `json:"type,omitempty"`
	Exclusions []exclusion `json:"exclusions,omitempty"`
}

type exclusion struct {
	Org  string `json:"org"`
	Name string `json:"name"`
}

func (e exclusion) matches(org, name string) bool {
	return (e.Org == "*" || e.Org == org) && (e.Name == "*" || e.Name == name)
}

// effective merges chain (child first, then ancestors) into a model.
// Child properties and managed versions override the parent's.
func effective(chain []*pomProject) *model {
	child := chain[0]
	props := map[string]string{}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].Properties {
			props[k] = v
		}
	}

	groupID, version := child.GroupID, child.Version
	if child.Parent != nil {
		if groupID == "" {
			groupID = child.Parent.GroupID
		}
		if version == "" {
			version = child.Parent.Version
		}
		props["project.parent.groupId"] = child.Parent.GroupID
		props["project.parent.version"] = child.Parent.Version
		props["parent.version"] = child.Parent.Version
	}
	props["project.groupId"] = groupID
	props["project.artifactId"] = child.ArtifactID
	props["project.version"] = version
	props["pom.groupId"] = groupID
	props["pom.version"] = version
	props["version"] = version
	props["groupId"] = groupID

	managed := map[string]pomDep{}
	for _, p := range chain {
		for _, m := range p.Managed {
			k := interpolate(m.GroupID, props) + ":" + interpolate(m.ArtifactID, props)
			if _, ok := managed[k]; !ok {
				managed[k] = m
			}
		}
	}

	out := &model{Packaging: interpolate(child.Packaging, props)}
	if out.Packaging == "" {
		out.Packaging = "jar"
	}
	seen := map[string]bool{}
	for _, p := range chain {
		for _, d := range p.Dependencies {
			if !transitive(d) {
				continue
			}
			org, name := interpolate(d.GroupID, props), interpolate(d.ArtifactID, props)
			key := org + ":" + name + ":" + d.Classifier
			if seen[key] {
				continue
			}
			seen[key] = true

			m, hasManaged := managed[org+":"+name]
			v := d.Version
			if v == "" && hasManaged {
				v = m.Version
			}
			if hasManaged && (m.Scope == "test" || m.Scope == "provided") && d.Scope == "" {
				continue
			}
			v = interpolate(v, props)
			if unresolved(org) || unresolved(name) || unresolved(v) || v == "" {
				continue
			}

			excl := d.Exclusions
			if hasManaged {
				excl = append(excl, m.Exclusions...)
			}
			nd := dep{Org: org, Name: name, Version: v, Classifier: d.Classifier, Type: d.Type}
			for _, x := range excl {
				nd.Exclusions = append(nd.Exclusions, exclusion{
					Org:  interpolate(x.GroupID, props),
					Name: interpolate(x.ArtifactID, props),
				})
			}
			out.Dependencies = append(out.Dependencies, nd)
		}
	}
	return out
}

// transitive reports whether d is part of the runtime closure.
func transitive(d pomDep) bool {
	switch strings.TrimSpace(d.Scope) {
	case "test", "provided", "system", "import":
		return false
	}
	if strings.TrimSpace(d.Optional) == "true" {
		return false
	}
	switch d.Type {
	case "", "jar", "bundle", "aar":
		return true
	}
	return false
}

var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolate expands ${...} references. Nested references are expanded up
// to a fixed depth; unknown references are left in place.
func interpolate(s string, props map[string]string) string {
	s = strings.TrimSpace(s)
	for range 8 {
		if !strings.Contains(s, "${") {
			return s
		}
		next := propertyRef.ReplaceAllStringFunc(s, func(ref string) string {
			if v, ok := props[ref[2:len(ref)-1]]; ok {
				return v
			}
			return ref
		})
		if next == s {
			return s
		}
		s = next
	}
	return s
}

func unresolved(s string) bool { return strings.Contains(s, "${") }

// normalizeVersion turns a version range into the version to fetch. Ranges
// resolve to their first bound: "[1.0]" is "1.0", "[1.2,2.0)" is "1.2",
// "(,2.0]" is "2.0".
func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || !strings.ContainsAny(v[:1], "[(") {
		return v
	}
	v = strings.Trim(v, "[]()")
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			return part
		}
	}
	return v
}
