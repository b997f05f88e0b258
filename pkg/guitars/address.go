package guitars

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const DefaultBasePath = "/guitars"

// Addresser maps names to canonical addresses and back.
type Addresser struct {
	basePath string
}

func NewAddresser(basePath string) Addresser {
	basePath = "/" + strings.Trim(basePath, "/")
	if basePath == "/" {
		basePath = ""
	}
	return Addresser{basePath: basePath}
}

// BasePath returns the collection path without a trailing slash.
func (a Addresser) BasePath() string {
	if a.basePath == "" {
		return "/"
	}
	return a.basePath
}

// Address returns the canonical address of the item with the given name.
func (a Addresser) Address(name string) string {
	return a.basePath + "/" + url.PathEscape(name)
}

// Name resolves an address produced by Address. Absolute URLs are accepted as long as
// their path matches.
func (a Addresser) Name(address string) (string, error) {
	if u, err := url.Parse(address); err == nil && u.IsAbs() {
		address = u.EscapedPath()
	}
	escaped, ok := strings.CutPrefix(address, a.basePath+"/")
	if !ok || escaped == "" || strings.Contains(escaped, "/") {
		return "", errors.Errorf("%q is not an address below %s", address, a.BasePath())
	}
	name, err := url.PathUnescape(escaped)
	if err != nil {
		return "", errors.Wrapf(err, "failed to unescape %q", address)
	}
	return name, nil
}
