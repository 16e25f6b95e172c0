package fetch

import "github.com/matzehuels/stackfetch/pkg/engine"

// Entry is one distinct downloaded file.
type Entry struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// Classify splits artifacts into main and sources entries. Both lists keep
// the input order and hold each URL once; the first occurrence's path wins.
func Classify(artifacts []engine.DetailedArtifact) (main, sources []Entry) {
	seenMain := make(map[string]bool)
	seenSources := make(map[string]bool)
	for _, a := range artifacts {
		e := Entry{URL: a.Artifact.URL, Path: a.Path}
		if a.Publication.Classifier == SourcesClassifier {
			if !seenSources[e.URL] {
				seenSources[e.URL] = true
				sources = append(sources, e)
			}
			continue
		}
		if !seenMain[e.URL] {
			seenMain[e.URL] = true
			main = append(main, e)
		}
	}
	return main, sources
}

// Paths returns the local paths of entries.
func Paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}
