package structs

import (
	"github.com/oleiade/reflections"
	"github.com/pkg/errors"
)

// GetField returns the value of the provided obj field. obj can whether be a structure or pointer to structure.
func GetField(obj any, name string) (any, error) {
	v, err := reflections.GetField(obj, name)
	return v, errors.Wrapf(err, "could not get field %s", name)
}

// Fields returns the exported field names of obj.
func Fields(obj any) ([]string, error) {
	names, err := reflections.Fields(obj)
	return names, errors.Wrap(err, "could not list fields")
}

// Project returns a map containing only the given fields of obj.
// All the exported fields are returned when names is empty.
func Project(obj any, names ...string) (map[string]any, error) {
	if len(names) == 0 {
		var err error
		if names, err = Fields(obj); err != nil {
			return nil, err
		}
	}

	projection := make(map[string]any, len(names))
	for _, name := range names {
		v, err := GetField(obj, name)
		if err != nil {
			return nil, err
		}
		projection[name] = v
	}
	return projection, nil
}
