package maven

import (
	"context"
	"encoding/xml"
	"errors"
	"os"
	"strings"

	"github.com/matzehuels/stackfetch/pkg/httputil"
	"github.com/matzehuels/stackfetch/pkg/repository"
)

// artifactURL builds the Maven 2 layout URL
// <root>/<group path>/<name>/<version>/<name>-<fileVersion>[-<classifier>].<ext>.
func artifactURL(repo *repository.Maven, org, name, version, fileVersion, classifier, ext string) string {
	var b strings.Builder
	b.WriteString(repo.Root)
	b.WriteByte('/')
	b.WriteString(strings.ReplaceAll(org, ".", "/"))
	b.WriteByte('/')
	b.WriteString(name)
	b.WriteByte('/')
	b.WriteString(version)
	b.WriteByte('/')
	b.WriteString(name)
	b.WriteByte('-')
	b.WriteString(fileVersion)
	if classifier != "" {
		b.WriteByte('-')
		b.WriteString(classifier)
	}
	b.WriteByte('.')
	b.WriteString(ext)
	return b.String()
}

func isSnapshot(version string) bool { return strings.HasSuffix(version, "-SNAPSHOT") }

type snapshotMetadata struct {
	Versioning struct {
		Snapshot struct {
			Timestamp   string `xml:"timestamp"`
			BuildNumber string `xml:"buildNumber"`
		} `xml:"snapshot"`
	} `xml:"versioning"`
}

// fileVersion returns the version used in file names. Remote snapshot
// repositories publish timestamped files listed in maven-metadata.xml; a
// missing metadata file means the plain -SNAPSHOT name is used.
func (e *Engine) fileVersion(ctx context.Context, repo *repository.Maven, org, name, version string) (string, error) {
	if !isSnapshot(version) || repo.IsLocal() {
		return version, nil
	}
	url := repo.Root + "/" + strings.ReplaceAll(org, ".", "/") + "/" + name + "/" + version + "/maven-metadata.xml"
	data, err := e.get(ctx, url)
	if errors.Is(err, httputil.ErrNotFound) {
		return version, nil
	}
	if err != nil {
		return "", err
	}
	var md snapshotMetadata
	if err := xml.Unmarshal(data, &md); err != nil {
		return version, nil
	}
	snap := md.Versioning.Snapshot
	if snap.Timestamp == "" || snap.BuildNumber == "" {
		return version, nil
	}
	return strings.TrimSuffix(version, "SNAPSHOT") + snap.Timestamp + "-" + snap.BuildNumber, nil
}

// get reads url over HTTP with retries, or from disk for file:// URLs.
func (e *Engine) get(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "file://") {
		data, err := os.ReadFile(repository.FilePath(url))
		if os.IsNotExist(err) {
			return nil, httputil.ErrNotFound
		}
		return data, err
	}
	var data []byte
	err := e.retryFor(url).Do(ctx, func() error {
		var err error
		data, err = e.http.Get(ctx, url)
		return err
	})
	return data, err
}
