package catalog

import (
	"github.com/cosmoforge/treescan/pkg/buffer"
	"github.com/cosmoforge/treescan/pkg/config"
	"github.com/cosmoforge/treescan/pkg/errors"
)

// FieldSpec is one entry of a field-spec file: a requested column by name
// and type. Slot and Offset are optional; when Slot is nil the field gets
// its own structure-of-arrays slot.
type FieldSpec struct {
	Name   string `yaml:"name" json:"name"`
	Type   string `yaml:"type" json:"type"`
	Slot   *int   `yaml:"slot,omitempty" json:"slot,omitempty"`
	Offset int    `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// FieldsFile is the YAML document listing the columns to extract.
type FieldsFile struct {
	Fields []FieldSpec `yaml:"fields" json:"fields"`
}

// LoadFields reads a field-spec YAML file.
func LoadFields(path string) ([]FieldSpec, error) {
	var f FieldsFile
	if err := config.Load(path, &f); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "loading field specs")
	}
	if len(f.Fields) == 0 {
		return nil, errors.Newf(errors.ErrorTypeConfig, "field-spec file %s lists no fields", path)
	}
	return f.Fields, nil
}

// ApplyFields converts field specs into requests, declaring one
// structure-of-arrays slot per spec that does not name one explicitly.
func ApplyFields(specs []FieldSpec, reg *buffer.Registry) ([]Request, error) {
	reqs := make([]Request, 0, len(specs))
	for _, spec := range specs {
		t, err := ParseNumericType(spec.Type)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "field "+spec.Name)
		}

		slot := -1
		offset := 0
		if spec.Slot != nil {
			slot = *spec.Slot
			offset = spec.Offset
		} else {
			slot, err = reg.AddSlot(t.Size())
			if err != nil {
				return nil, err
			}
		}

		reqs = append(reqs, Request{Name: spec.Name, Type: t, Slot: slot, Offset: offset})
	}
	return reqs, nil
}
