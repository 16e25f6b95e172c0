package dependency

import (
	"testing"

	"github.com/matzehuels/stackfetch/pkg/errors"
	"github.com/matzehuels/stackfetch/pkg/scala"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Dependency
	}{
		{
			in:   "com.lihaoyi:os-lib_2.13:0.9.1",
			want: New("com.lihaoyi", "os-lib_2.13", "0.9.1"),
		},
		{
			in:   "com.lihaoyi::os-lib:0.9.1",
			want: Scala("com.lihaoyi", "os-lib", "0.9.1"),
		},
		{
			in:   "org.typelevel:::kind-projector:0.13.2",
			want: Dependency{Module: Module{Org: "org.typelevel", Name: "kind-projector", Cross: CrossFull}, Version: "0.13.2"},
		},
		{
			in:   "org.scala-js::scalajs-dom::2.4.0",
			want: ScalaPlatform("org.scala-js", "scalajs-dom", "2.4.0"),
		},
		{
			in:   "org.example:lib:1.0,intransitive,classifier=tests",
			want: Dependency{Module: Module{Org: "org.example", Name: "lib"}, Version: "1.0", Attributes: Attributes{Classifier: "tests", Intransitive: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseURLOverride(t *testing.T) {
	d, err := Parse("org.example:lib:1.0,url=https://example.com/lib.jar")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if d.URL == nil || d.URL.URL != "https://example.com/lib.jar" || !d.URL.Changing {
		t.Errorf("URL = %+v, want changing override", d.URL)
	}

	d, err = Parse("org.example:lib:1.0,url=https://example.com/lib.jar,changing=false")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if d.URL.Changing {
		t.Error("changing=false should disable the changing flag")
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"org.example",
		"org.example:lib",
		"org.example:lib::1.0",
		":lib:1.0",
		"org.example:lib:1.0,bogus",
		"org.example:lib:1.0,url=ftp://x",
		"org.example:lib:1.0,url=https://example.com/a/../../../escaped.jar",
		"org.example:lib:1.0,classifier=",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidDependency) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidDependency)
			}
		})
	}
}

func TestParseAllCollectsEveryFailure(t *testing.T) {
	_, err := ParseAll([]string{"a:b:1", "bad", "also-bad"})
	if !errors.Is(err, errors.ErrCodeComposite) {
		t.Fatalf("err = %v, want composite", err)
	}
	if n := len(errors.Flatten(err)); n != 2 {
		t.Errorf("leaves = %d, want 2", n)
	}

	deps, err := ParseAll([]string{"a:b:1", "c::d:2"})
	if err != nil || len(deps) != 2 {
		t.Errorf("ParseAll() = %v, %v", deps, err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, in := range []string{
		"org.example:lib:1.0",
		"org.example::lib:1.0",
		"org.example:::lib:1.0",
		"org.example::lib::1.0",
		"org.example:lib:1.0,intransitive,classifier=tests",
		"org.example:lib:1.0,url=https://example.com/lib.jar",
		"org.example:lib:1.0,url=https://example.com/lib.jar,changing=false",
	} {
		d, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if got := d.String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
	}
}

func TestEqualIgnoresURL(t *testing.T) {
	a := New("org", "lib", "1.0")
	b := a.WithURL("https://example.com/lib.jar", true)
	if !a.Equal(b) {
		t.Error("URL override should not affect equality")
	}
	if a.Equal(a.Intransitive()) {
		t.Error("attributes should affect equality")
	}
}

func TestResolve(t *testing.T) {
	s213 := scala.NewParams("2.13.8", scala.Platform{})
	js := scala.NewParams("2.13.8", scala.Platform{Kind: scala.JS, Version: "1.16.0"})
	s3 := scala.NewParams("3.3.0", scala.Platform{})

	tests := []struct {
		name   string
		dep    Dependency
		params *scala.Params
		want   string
	}{
		{"plain without params", New("org", "lib", "1.0"), nil, "org:lib:1.0"},
		{"plain ignores params", New("org", "lib", "1.0"), s213, "org:lib:1.0"},
		{"binary 2.13", Scala("org", "lib", "1.0"), s213, "org:lib_2.13:1.0"},
		{"binary 3", Scala("org", "lib", "1.0"), s3, "org:lib_3:1.0"},
		{"full", Dependency{Module: Module{Org: "org", Name: "plugin", Cross: CrossFull}, Version: "1.0"}, s213, "org:plugin_2.13.8:1.0"},
		{"platform js", ScalaPlatform("org", "lib", "1.0"), js, "org:lib_sjs1_2.13:1.0"},
		{"platform jvm", ScalaPlatform("org", "lib", "1.0"), s3, "org:lib_3:1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.dep.Resolve(tt.params)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveMissingScalaVersion(t *testing.T) {
	_, err := Scala("org", "lib", "1.0").Resolve(nil)
	if !errors.Is(err, errors.ErrCodeMissingScalaVersion) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeMissingScalaVersion)
	}
}

func TestResolveKeepsAttributesAndURL(t *testing.T) {
	d := New("org", "lib", "1.0").Intransitive().WithURL("https://example.com/lib.jar", false)
	r, err := d.Resolve(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Attributes.Intransitive || r.URL == nil || r.URL.Changing {
		t.Errorf("Resolve() dropped metadata: %+v", r)
	}
}

func TestPinMapLaterWins(t *testing.T) {
	m := ModuleID{Org: "org", Name: "a"}
	got := PinMap([]Pin{{Module: m, Version: "1"}, {Module: m, Version: "2"}})
	if got[m] != "2" {
		t.Errorf("PinMap()[a] = %q, want 2", got[m])
	}
}
