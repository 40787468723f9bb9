package store

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// DefaultFixture is the built-in dataset used when neither a fixture path nor a DSN is given.
func DefaultFixture() (Dataset, error) {
	return ParseFixture(defaultFixture)
}

func LoadFixture(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, wrap(err, "read fixture")
	}
	ds, err := ParseFixture(data)
	if err != nil {
		return Dataset{}, errors.Wrapf(err, "fixture %s", path)
	}
	return ds, nil
}

func ParseFixture(data []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, wrap(err, "decode fixture")
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// MarshalFixture renders a dataset in the fixture format, e.g. to dump a database.
func MarshalFixture(ds Dataset) ([]byte, error) {
	out, err := yaml.Marshal(ds)
	return out, wrap(err, "encode fixture")
}
