package profile

import "encoding/json"

// UnmarshalJSON decodes a stored profile on top of the defaults, so that a
// document written by an older host version still yields a complete profile.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := NewProfile()
	for _, f := range Schema {
		v, ok := raw[f.Key]
		if !ok || isNull(v) {
			continue
		}
		if err := f.Decode(decoded, v); err != nil {
			return err
		}
	}
	*p = *decoded
	return nil
}
