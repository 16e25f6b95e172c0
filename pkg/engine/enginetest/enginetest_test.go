package enginetest

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/engine"
	"github.com/matzehuels/stackfetch/pkg/repository"
)

func resolved(org, name, version string) dependency.Resolved {
	return dependency.Resolved{Module: dependency.ModuleID{Org: org, Name: name}, Version: version}
}

func TestResolveTransitive(t *testing.T) {
	e := New().
		Add("a:app:1", "a:lib:1", "a:util:1").
		Add("a:lib:1", "a:util:2")

	res, err := e.Resolve(context.Background(), engine.Request{
		Dependencies:  []dependency.Resolved{resolved("a", "app", "1")},
		MainArtifacts: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Artifacts) != 3 {
		t.Fatalf("artifacts = %d, want 3", len(res.Artifacts))
	}
	// nearest wins: util:1 is at depth 1, util:2 at depth 2
	if got := res.Artifacts[2].Dependency.String(); got != "a:util:1" {
		t.Errorf("third artifact = %s, want a:util:1", got)
	}
	if res.Graph.NodeCount() != 3 {
		t.Errorf("graph nodes = %d", res.Graph.NodeCount())
	}
}

func TestResolveForceAndIntransitive(t *testing.T) {
	e := New().Add("a:app:1", "a:lib:1")

	root := resolved("a", "app", "1")
	root.Attributes.Intransitive = true
	res, _ := e.Resolve(context.Background(), engine.Request{
		Dependencies:  []dependency.Resolved{root},
		MainArtifacts: true,
	})
	if len(res.Artifacts) != 1 {
		t.Errorf("intransitive root should not expand, got %d artifacts", len(res.Artifacts))
	}

	res, _ = e.Resolve(context.Background(), engine.Request{
		Dependencies:  []dependency.Resolved{resolved("a", "app", "1")},
		Force:         []dependency.Pin{{Module: dependency.ModuleID{Org: "a", Name: "lib"}, Version: "9"}},
		MainArtifacts: true,
	})
	if got := res.Artifacts[1].Dependency.Version; got != "9" {
		t.Errorf("forced version = %s, want 9", got)
	}
	if len(e.Requests()) != 2 {
		t.Errorf("Requests = %d, want 2", len(e.Requests()))
	}
}

func TestResolveSourcesAndFallback(t *testing.T) {
	e := New().WithoutSources("a:lib:1")
	lib := resolved("a", "lib", "1")
	fb := repository.FallbackFor([]dependency.Resolved{
		{Module: lib.Module, Version: "1", URL: &dependency.URLOverride{URL: "file:///x/lib.jar", Changing: true}},
	})

	res, _ := e.Resolve(context.Background(), engine.Request{
		Dependencies:  []dependency.Resolved{lib},
		Repositories:  []repository.Repository{repository.Central, fb},
		Classifiers:   []string{"sources"},
		MainArtifacts: true,
	})
	if len(res.Artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(res.Artifacts))
	}
	if res.Artifacts[0].Artifact.URL != "file:///x/lib.jar" || !res.Artifacts[0].Artifact.Changing {
		t.Errorf("fallback should supply the main artifact, got %+v", res.Artifacts[0].Artifact)
	}
	if res.Artifacts[1].Path != "" {
		t.Errorf("missing sources should have an empty path, got %q", res.Artifacts[1].Path)
	}
}

func TestResolveFailure(t *testing.T) {
	boom := errors.New("boom")
	e := New().Fail("a:bad", boom)
	_, err := e.Resolve(context.Background(), engine.Request{
		Dependencies: []dependency.Resolved{resolved("a", "bad", "1")},
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if _, ok := e.RequestFor("a:bad"); !ok {
		t.Error("failed request should still be recorded")
	}
}
