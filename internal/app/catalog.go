package app

import (
	"bytes"
	"encoding/json"

	"github.com/dkeye/Activities/internal/domain"
)

// Catalog is a point-in-time listing in seed order.
type Catalog []domain.Activity

// MarshalJSON renders an object keyed by activity name, keys in seed order.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(a.Name))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c Catalog) Lookup(name domain.ActivityName) (domain.Activity, bool) {
	for _, a := range c {
		if a.Name == name {
			return a, true
		}
	}
	return domain.Activity{}, false
}
