package meta

import (
	"context"
	"fmt"
	"os"

	"github.com/mwantia/textdb/data"
)

// EnvRepository is consulted for the repository path when none is given
// explicitly.
const EnvRepository = "TEXTDB_METADATA"

// Provider yields a local checkout of the metadata repository. How the
// checkout comes to exist (plain directory, sync from elsewhere) is the
// provider's business; the library only ever reads it.
type Provider interface {
	Checkout(ctx context.Context) (string, error)
}

// LocalDir serves an already existing directory. An empty value falls
// back to $TEXTDB_METADATA.
type LocalDir string

func (d LocalDir) Checkout(ctx context.Context) (string, error) {
	path := string(d)
	if path == "" {
		path = os.Getenv(EnvRepository)
	}
	if path == "" {
		return "", fmt.Errorf("%w: no repository path given and %s is unset", data.ErrInvalidPath, EnvRepository)
	}

	path = os.ExpandEnv(path)
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a valid directory", data.ErrInvalidPath, path)
	}

	return path, nil
}
