package georand

import (
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// datasetProperties are the per-feature properties a boundary dataset must
// carry. Pointers tell a missing property apart from an empty one.
type datasetProperties struct {
	FIPS *string `json:"FIPS"`
	ISO2 *string `json:"ISO2"`
	ISO3 *string `json:"ISO3"`
	NAME *string `json:"NAME"`
	UN   *int    `json:"UN"`
}

type datasetFeature struct {
	Properties datasetProperties `json:"properties"`
	Geometry   *geojson.Geometry `json:"geometry"`
}

type dataset struct {
	Features []datasetFeature `json:"features"`
}

// country validates f and returns its identifiers.
func (f *datasetFeature) country(i int) (Country, error) {
	p := f.Properties
	missing := func(name string) error {
		return errors.Wrapf(ErrMalformedDataset, "feature %d: missing %s", i, name)
	}
	switch {
	case p.FIPS == nil:
		return Country{}, missing("FIPS")
	case p.ISO2 == nil:
		return Country{}, missing("ISO2")
	case p.ISO3 == nil:
		return Country{}, missing("ISO3")
	case p.NAME == nil:
		return Country{}, missing("NAME")
	case p.UN == nil:
		return Country{}, missing("UN")
	case f.Geometry == nil:
		return Country{}, missing("geometry")
	}
	return Country{FIPS: *p.FIPS, ISO2: *p.ISO2, ISO3: *p.ISO3, Name: *p.NAME, UN: *p.UN}, nil
}

func decodeDataset(r io.Reader) (*dataset, error) {
	var ds dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, errors.Wrap(err, "decoding dataset")
	}
	return &ds, nil
}

// openDataset opens path, transparently decompressing .bz2 and .gz files.
// If path itself does not exist, path+".bz2" and path+".gz" are tried.
func openDataset(path string) (io.Reader, func() error, error) {
	candidates := []string{path, path + ".bz2", path + ".gz"}
	var firstErr error
	for _, p := range candidates {
		fh, err := os.Open(p)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		switch {
		case strings.HasSuffix(p, ".bz2"):
			return bzip2.NewReader(fh), fh.Close, nil
		case strings.HasSuffix(p, ".gz"):
			zr, err := gzip.NewReader(fh)
			if err != nil {
				fh.Close()
				return nil, nil, errors.Wrapf(err, "opening %s", p)
			}
			return zr, func() error {
				zr.Close()
				return fh.Close()
			}, nil
		default:
			return fh, fh.Close, nil
		}
	}
	return nil, nil, errors.Wrapf(firstErr, "opening %s", path)
}

// httpClient is a shared HTTP client with reasonable timeouts.
var httpClient = &http.Client{
	Timeout: 60 * time.Second,
}

// FetchDataset downloads a boundary dataset from url and installs it at
// path, creating the parent directory if needed. The download is staged next
// to path and only replaces it once it loads as a Registry, so a failed or
// malformed download leaves any existing dataset in place. The staged name
// keeps path's extension, so compressed datasets are checked the same way
// LoadRegistry reads them.
func FetchDataset(ctx context.Context, url, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating data directory")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "building request for %s", url)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "HTTP GET %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("HTTP GET %s: status %d", url, resp.StatusCode)
	}

	staged, err := os.CreateTemp(dir, ".fetch-*-"+filepath.Base(path))
	if err != nil {
		return errors.Wrapf(err, "staging download in %s", dir)
	}
	defer os.Remove(staged.Name())

	_, err = io.Copy(staged, resp.Body)
	if closeErr := staged.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Wrapf(err, "writing download from %s", url)
	}

	reg, err := LoadRegistry(staged.Name())
	if err != nil {
		return errors.Wrapf(err, "checking download from %s", url)
	}
	if len(reg.countries) == 0 {
		return errors.Wrapf(ErrMalformedDataset, "download from %s has no features", url)
	}
	if err := os.Rename(staged.Name(), path); err != nil {
		return errors.Wrapf(err, "installing dataset at %s", path)
	}
	return nil
}
