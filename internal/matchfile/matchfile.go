// Package matchfile reads and writes YAML documents describing matches.
//
// A document looks like:
//
//	beta: 4.1666
//	matches:
//	  - name: final
//	    mode: quality
//	    teams:
//	      - players: [{mu: 25, sigma: 5}]
//	      - players: [{mu: 30, sigma: 4, weight: 0.5}]
//
// Matches without a beta inherit the document's.
package matchfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/okian/trueskill/internal/domain/model"
)

// File is the top-level document.
type File struct {
	Beta    float64       `yaml:"beta,omitempty" validate:"gte=0"`
	Matches []model.Match `yaml:"matches" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return decode(data)
}

// Decode reads a document from r.
func Decode(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return decode(data)
}

func decode(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrDecode)
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.resolve()
	return &f, nil
}

// Validate checks struct constraints and that match ids are unique.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	seen := make(map[string]int, len(f.Matches))
	for i, m := range f.Matches {
		if m.ID == "" {
			continue
		}
		if j, ok := seen[m.ID]; ok {
			return fmt.Errorf("%w: match %d reuses id %q of match %d", ErrInvalidFile, i, m.ID, j)
		}
		seen[m.ID] = i
	}
	return nil
}

// resolve copies the document beta and default mode into matches that leave them unset.
func (f *File) resolve() {
	for i := range f.Matches {
		m := &f.Matches[i]
		if m.Beta == 0 {
			m.Beta = f.Beta
		}
		m.Mode = m.Mode.OrDefault()
	}
}

// Encode writes f as YAML.
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode match file: %w", err)
	}
	return enc.Close()
}

// Save writes f to path, creating or truncating it.
func Save(path string, f *File) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
