package maven

import (
	"testing"
)

const childPOM = `<?xml version="1.0"?>
<project>
  <parent>
    <groupId>org.example</groupId>
    <artifactId>parent</artifactId>
    <version>1.0</version>
  </parent>
  <artifactId>child</artifactId>
  <properties>
    <slf4j.version>2.0.9</slf4j.version>
  </properties>
  <dependencies>
    <dependency>
      <groupId>org.slf4j</groupId>
      <artifactId>slf4j-api</artifactId>
      <version>${slf4j.version}</version>
    </dependency>
    <dependency>
      <groupId>${project.groupId}</groupId>
      <artifactId>sibling</artifactId>
      <version>${project.version}</version>
      <exclusions>
        <exclusion><groupId>com.bad</groupId><artifactId>*</artifactId></exclusion>
      </exclusions>
    </dependency>
    <dependency>
      <groupId>com.google.guava</groupId>
      <artifactId>guava</artifactId>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <version>4.13</version>
      <scope>test</scope>
    </dependency>
    <dependency>
      <groupId>org.opt</groupId>
      <artifactId>optional</artifactId>
      <version>1</version>
      <optional>true</optional>
    </dependency>
    <dependency>
      <groupId>org.unknown</groupId>
      <artifactId>unresolved</artifactId>
      <version>${not.defined}</version>
    </dependency>
  </dependencies>
</project>`

const parentPOM = `<?xml version="1.0"?>
<project>
  <groupId>org.example</groupId>
  <artifactId>parent</artifactId>
  <version>1.0</version>
  <packaging>pom</packaging>
  <properties>
    <guava.version>32.1.3-jre</guava.version>
    <slf4j.version>1.7.36</slf4j.version>
  </properties>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>com.google.guava</groupId>
        <artifactId>guava</artifactId>
        <version>${guava.version}</version>
      </dependency>
    </dependencies>
  </dependencyManagement>
  <dependencies>
    <dependency>
      <groupId>org.scala-lang</groupId>
      <artifactId>scala-library</artifactId>
      <version>2.13.12</version>
    </dependency>
  </dependencies>
</project>`

func TestEffectiveModel(t *testing.T) {
	child, err := parsePOM([]byte(childPOM))
	if err != nil {
		t.Fatal(err)
	}
	parent, err := parsePOM([]byte(parentPOM))
	if err != nil {
		t.Fatal(err)
	}

	m := effective([]*pomProject{child, parent})
	if m.Packaging != "jar" {
		t.Errorf("Packaging = %q, want jar", m.Packaging)
	}

	want := []string{
		"org.slf4j:slf4j-api:2.0.9",
		"org.example:sibling:1.0",
		"com.google.guava:guava:32.1.3-jre",
		"org.scala-lang:scala-library:2.13.12",
	}
	if len(m.Dependencies) != len(want) {
		t.Fatalf("dependencies = %+v, want %v", m.Dependencies, want)
	}
	for i, d := range m.Dependencies {
		if got := d.Org + ":" + d.Name + ":" + d.Version; got != want[i] {
			t.Errorf("dependency %d = %s, want %s", i, got, want[i])
		}
	}
	if ex := m.Dependencies[1].Exclusions; len(ex) != 1 || !ex[0].matches("com.bad", "anything") {
		t.Errorf("exclusions = %+v", ex)
	}
}

func TestInterpolate(t *testing.T) {
	props := map[string]string{"a": "${b}", "b": "1.0", "loop": "${loop}"}
	tests := map[string]string{
		"${a}":       "1.0",
		"x-${b}-y":   "x-1.0-y",
		"${missing}": "${missing}",
		"${loop}":    "${loop}",
		" plain ":    "plain",
	}
	for in, want := range tests {
		if got := interpolate(in, props); got != want {
			t.Errorf("interpolate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeVersion(t *testing.T) {
	tests := map[string]string{
		"1.0":       "1.0",
		"[1.0]":     "1.0",
		"[1.2,2.0)": "1.2",
		"(,2.0]":    "2.0",
		"":          "",
		" 3.1 ":     "3.1",
	}
	for in, want := range tests {
		if got := normalizeVersion(in); got != want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTransitiveScopes(t *testing.T) {
	tests := []struct {
		d    pomDep
		want bool
	}{
		{pomDep{}, true},
		{pomDep{Scope: "runtime"}, true},
		{pomDep{Scope: "compile"}, true},
		{pomDep{Scope: "test"}, false},
		{pomDep{Scope: "provided"}, false},
		{pomDep{Scope: "import", Type: "pom"}, false},
		{pomDep{Optional: "true"}, false},
		{pomDep{Type: "test-jar"}, false},
		{pomDep{Type: "bundle"}, true},
	}
	for _, tt := range tests {
		if got := transitive(tt.d); got != tt.want {
			t.Errorf("transitive(%+v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
