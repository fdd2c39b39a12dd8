package profile

import (
	"encoding/json"
	"fmt"
)

// OverlayResult reports which template keys were applied to a profile.
type OverlayResult struct {
	Applied []string
	// Skipped holds template keys naming a profile field whose value could
	// not be decoded into that field.
	Skipped []string
	// Ignored holds template keys with no matching profile field, the
	// metadata keys included.
	Ignored []string
}

// ApplyTemplate overlays t onto p: every key present in both t and the
// profile schema is overwritten, profile fields missing from t are left
// alone and template-only keys are ignored. Mismatched values are skipped,
// the overlay never fails. The new values are written to p in one step.
func ApplyTemplate(p *Profile, t Template) OverlayResult {
	var res OverlayResult
	next := p.Clone()
	for _, f := range Schema {
		raw, ok := t[f.Key]
		if !ok {
			continue
		}
		if err := f.Decode(next, raw); err != nil {
			res.Skipped = append(res.Skipped, f.Key)
			continue
		}
		res.Applied = append(res.Applied, f.Key)
	}
	for _, k := range t.Keys() {
		if _, ok := Lookup(k); !ok {
			res.Ignored = append(res.Ignored, k)
		}
	}
	*p = *next
	return res
}

// ExportTemplate reduces p to a shareable template: secrets, identifiers
// and per-installation toggles are dropped, the OAuth sub-configuration is
// dropped when OAuth is off, and placeholder metadata is attached.
func ExportTemplate(p *Profile) (Template, error) {
	t := make(Template, len(Schema)+2)
	for _, f := range Schema {
		if !f.Exportable {
			continue
		}
		if f.OAuth && !p.OAuth {
			continue
		}
		raw, err := json.Marshal(f.get(p))
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", f.Key, err)
		}
		t[f.Key] = raw
	}
	name, _ := json.Marshal(placeholderName)
	desc, _ := json.Marshal(placeholderDescription)
	t[TemplateNameKey] = name
	t[TemplateDescriptionKey] = desc
	return t, nil
}
