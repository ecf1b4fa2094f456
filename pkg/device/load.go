package device

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"gopkg.in/yaml.v3"
)

// Load reads a device description from path. Files ending in .gz are gzip
// compressed, files ending in .sz use the snappy framing format; anything
// else is plain YAML.
func Load(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	defer f.Close()

	d, err := Decode(f, path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	return d, nil
}

// Parse decodes and validates an uncompressed YAML device description.
func Parse(data []byte) (*Device, error) {
	return Decode(bytes.NewReader(data), "")
}

// Decode reads a device description from r. name selects decompression by
// suffix and may be empty.
func Decode(r io.Reader, name string) (*Device, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		r = zr
	case strings.HasSuffix(name, ".sz"):
		r = snappy.NewReader(r)
	case strings.HasSuffix(name, ".capnp"), strings.HasSuffix(name, ".device"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Device
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty device description")
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid device %q: %w", d.Name, err)
	}
	return &d, nil
}
