package operation

// Params carries free-form operation parameters, typically decoded from a
// pipeline template. Accessors coerce the loosely typed values that YAML
// decoding produces.
type Params map[string]interface{}

// Int returns the integer value for key, or def when absent or of the wrong
// type.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Float returns the float value for key, or def.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

// Bool returns the boolean value for key, or def.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// String returns the string value for key, or def.
func (p Params) String(key, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// IntSlice returns the integer slice for key, or nil.
func (p Params) IntSlice(key string) []int {
	switch v := p[key].(type) {
	case []int:
		return append([]int(nil), v...)
	case []interface{}:
		out := make([]int, 0, len(v))
		for _, item := range v {
			switch n := item.(type) {
			case int:
				out = append(out, n)
			case int64:
				out = append(out, int(n))
			case float64:
				out = append(out, int(n))
			default:
				return nil
			}
		}
		return out
	default:
		return nil
	}
}

// SeedPtr returns the seed for key as a pointer, or nil when the key is
// absent. Absence of a seed means the caller accepts non-determinism.
func (p Params) SeedPtr(key string) *int64 {
	switch v := p[key].(type) {
	case int:
		seed := int64(v)
		return &seed
	case int64:
		seed := v
		return &seed
	case float64:
		seed := int64(v)
		return &seed
	default:
		return nil
	}
}
