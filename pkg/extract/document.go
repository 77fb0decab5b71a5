package extract

// Document wraps a parsed JSON value behind total accessors. Every
// accessor takes a default and returns it on absence or type mismatch.
// A bare scalar or array is a valid Document too; all field lookups
// then return their defaults.
type Document struct {
	value any
}

// NewDocument wraps an already-decoded JSON value.
func NewDocument(value any) Document {
	return Document{value: value}
}

// Value returns the underlying decoded JSON value.
func (d Document) Value() any {
	return d.value
}

// IsObject reports whether the payload is a JSON object.
func (d Document) IsObject() bool {
	_, ok := d.value.(map[string]any)
	return ok
}

func (d Document) field(key string) (any, bool) {
	obj, ok := d.value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

// String returns the string at key, or def when absent or not a string.
func (d Document) String(key, def string) string {
	v, ok := d.field(key)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// Float returns the number at key, or def when absent or not numeric.
func (d Document) Float(key string, def float64) float64 {
	v, ok := d.field(key)
	if !ok {
		return def
	}
	f, ok := v.(float64)
	if !ok {
		return def
	}
	return f
}

// Bool returns the boolean at key, or def when absent or not a boolean.
func (d Document) Bool(key string, def bool) bool {
	v, ok := d.field(key)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// Scores returns the numeric entries of the object at key. Non-numeric
// entries are discarded; an absent or non-object value yields an empty
// map, never nil.
func (d Document) Scores(key string) map[string]float64 {
	scores := make(map[string]float64)
	v, ok := d.field(key)
	if !ok {
		return scores
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return scores
	}
	for name, raw := range obj {
		if f, ok := raw.(float64); ok {
			scores[name] = f
		}
	}
	return scores
}
