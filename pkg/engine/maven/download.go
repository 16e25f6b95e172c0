package maven

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackfetch/pkg/engine"
	ferrors "github.com/matzehuels/stackfetch/pkg/errors"
	"github.com/matzehuels/stackfetch/pkg/httputil"
	"github.com/matzehuels/stackfetch/pkg/repository"
)

// wanted is one file to download.
type wanted struct {
	m         *module
	pub       engine.Publication
	art       engine.Artifact
	mayBeMiss bool // classified artifacts may legitimately not exist
}

// download fetches the requested publications of every module and returns
// them in module order, main artifact first.
func (e *Engine) download(ctx context.Context, modules []*module, req engine.Request) ([]engine.DetailedArtifact, error) {
	var files []wanted
	for _, m := range modules {
		files = append(files, e.publications(m, req)...)
	}

	out := make([]engine.DetailedArtifact, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, w := range files {
		g.Go(func() error {
			path, err := e.fetchFile(gctx, w.art)
			if errors.Is(err, httputil.ErrNotFound) {
				if !w.mayBeMiss {
					return ferrors.New(ferrors.ErrCodePackageNotFound, "%s: %s not found", w.m.dep, w.art.URL)
				}
				err, path = nil, ""
			}
			if ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
				return ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "%s", w.m.dep)
			}
			if err != nil {
				return networkError(w.m.dep, err)
			}
			out[i] = engine.DetailedArtifact{
				Dependency:  w.m.dep,
				Publication: w.pub,
				Artifact:    w.art,
				Path:        path,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) publications(m *module, req engine.Request) []wanted {
	var files []wanted
	name := m.dep.Module.Name
	ext := "jar"
	if m.dep.Attributes.Type != "" && m.dep.Attributes.Type != "bundle" {
		ext = m.dep.Attributes.Type
	}

	if req.MainRequested() {
		switch {
		case m.fallback != nil:
			files = append(files, wanted{
				m:   m,
				pub: engine.Publication{Name: name, Type: "jar", Ext: extOf(m.fallback.URL)},
				art: engine.Artifact{URL: m.fallback.URL, Changing: m.fallback.Changing},
			})
		case m.model != nil && m.model.Packaging == "pom" && m.dep.Attributes.Type == "":
			// parent or BOM style module, nothing to download
		case m.repo != nil:
			c := m.dep.Attributes.Classifier
			files = append(files, wanted{
				m:   m,
				pub: engine.Publication{Name: name, Type: typeOf(m.dep.Attributes.Type, c), Ext: ext, Classifier: c},
				art: engine.Artifact{
					URL:      artifactURL(m.repo, m.dep.Module.Org, name, m.dep.Version, m.fileVersion, c, ext),
					Changing: isSnapshot(m.dep.Version),
				},
			})
		}
	}

	if m.repo == nil {
		return files
	}
	for _, c := range req.ClassifiersRequested() {
		files = append(files, wanted{
			m:   m,
			pub: engine.Publication{Name: name, Type: typeOf("", c), Ext: "jar", Classifier: c},
			art: engine.Artifact{
				URL:      artifactURL(m.repo, m.dep.Module.Org, name, m.dep.Version, m.fileVersion, c, "jar"),
				Changing: isSnapshot(m.dep.Version),
			},
			mayBeMiss: true,
		})
	}
	return files
}

func typeOf(typ, classifier string) string {
	switch {
	case typ != "":
		return typ
	case classifier == "sources":
		return "src"
	case classifier == "javadoc":
		return "doc"
	}
	return "jar"
}

func extOf(url string) string {
	base := url[strings.LastIndexByte(url, '/')+1:]
	if i := strings.LastIndexByte(base, '.'); i >= 0 && i < len(base)-1 {
		return base[i+1:]
	}
	return "jar"
}

// fetchFile returns the local path of art, downloading it when needed.
// file:// artifacts are used in place. Non-changing files already on disk
// are reused.
func (e *Engine) fetchFile(ctx context.Context, art engine.Artifact) (string, error) {
	if strings.HasPrefix(art.URL, "file://") {
		path := repository.FilePath(art.URL)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return "", httputil.ErrNotFound
		} else if err != nil {
			return "", err
		}
		return path, nil
	}

	path, err := e.localPath(art.URL)
	if err != nil {
		return "", err
	}
	if !art.Changing {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	if _, miss, _ := e.cache.Get(ctx, e.keyer.MissKey(art.URL)); miss {
		return "", httputil.ErrNotFound
	}

	err = e.retryFor(art.URL).Do(ctx, func() error {
		return e.downloadTo(ctx, art.URL, path)
	})
	if errors.Is(err, httputil.ErrNotFound) {
		_ = e.cache.Set(ctx, e.keyer.MissKey(art.URL), []byte{1}, missTTL)
	}
	if err != nil {
		return "", err
	}
	e.logger.Debug("downloaded", "url", art.URL)
	return path, nil
}

// downloadTo streams url into a temporary file next to path and renames it
// into place, so concurrent fetches never observe a partial file.
func (e *Engine) downloadTo(ctx context.Context, url, path string) error {
	body, err := e.http.Open(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".part-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return httputil.Retryable(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
