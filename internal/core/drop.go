package core

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ErrNoDroppedFile is returned when a drop carries no usable file URI.
var ErrNoDroppedFile = errors.New("no file in drop")

// DroppedPath returns the local path of the first entry in a text/uri-list.
func DroppedPath(uriList string) (string, error) {
	for _, line := range strings.Split(uriList, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		u, err := url.Parse(line)
		if err != nil {
			return "", fmt.Errorf("invalid dropped URI %q: %w", line, err)
		}
		switch u.Scheme {
		case "file":
			return u.Path, nil
		case "":
			return line, nil
		default:
			return "", fmt.Errorf("cannot open %s URIs: %w", u.Scheme, ErrNoDroppedFile)
		}
	}
	return "", ErrNoDroppedFile
}

// LoadDropped reads the first file of a drop into the input buffer. On
// failure the error message becomes the input instead.
func LoadDropped(c Commands, uriList string) error {
	data, err := readDropped(uriList)
	if err != nil {
		c.SetInputText(err.Error())
		return err
	}
	c.SetInputText(string(data))
	return nil
}

func readDropped(uriList string) ([]byte, error) {
	path, err := DroppedPath(uriList)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
