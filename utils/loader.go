package utils

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadJSON reads a JSON document from a local path and decodes it into v.
// Remote object-storage URIs are not resolvable here; callers holding
// anchors on a bucket must stage the file locally first.
func LoadJSON(path string, v any) error {
	if strings.Contains(path, "://") {
		return errors.Errorf("remote path %q is not supported, expected a local file", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	if err := json.Unmarshal(content, v); err != nil {
		return errors.Wrapf(err, "failed to decode %s", path)
	}
	return nil
}
