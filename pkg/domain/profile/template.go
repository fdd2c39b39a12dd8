package profile

import (
	"encoding/json"
	"errors"
	"net/url"
	"sort"
)

// Template metadata keys. They never map onto a profile field.
const (
	TemplateNameKey        = "_name"
	TemplateDescriptionKey = "_description"
)

const (
	placeholderName        = "TODO: FILL THIS OUT. SHOULD BE LESS THAN 30 CHARACTERS. WILL SHOW UP IN THE TEMPLATE SELECT BOX. SOMETHING LIKE 'Slack Message - v1'."
	placeholderDescription = "TODO: FILL THIS OUT. THIS WILL SHOW WHEN YOUR TEMPLATE HAS BEEN SELECTED. SHOULD EXPLAIN WHAT THE TEMPLATE IS, HOW TO USE IT, AND ANYTHING ELSE NECESSARY."
)

const dataURIPrefix = "data:application/json;charset=utf-8,"

// Template is a preset: a subset of profile fields plus name and
// description metadata. It only ever seeds or receives profile values.
type Template map[string]json.RawMessage

// ParseTemplate decodes a template document. The document must be a JSON
// object.
func ParseTemplate(data []byte) (Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.New("template document is null")
	}
	return t, nil
}

// Name returns the _name metadata, or "" when absent.
func (t Template) Name() string {
	return t.meta(TemplateNameKey)
}

// Description returns the _description metadata, or "" when absent.
func (t Template) Description() string {
	return t.meta(TemplateDescriptionKey)
}

func (t Template) meta(key string) string {
	raw, ok := t[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Has reports whether key is present.
func (t Template) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Keys returns the template keys in sorted order.
func (t Template) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JSON encodes the template with indentation.
func (t Template) JSON() ([]byte, error) {
	return json.MarshalIndent(map[string]json.RawMessage(t), "", "  ")
}

// DataURI encodes the template as a downloadable data: URI.
func (t Template) DataURI() (string, error) {
	data, err := json.Marshal(map[string]json.RawMessage(t))
	if err != nil {
		return "", err
	}
	return dataURIPrefix + url.PathEscape(string(data)), nil
}

// ParseDataURI reverses DataURI.
func ParseDataURI(uri string) (Template, error) {
	if len(uri) < len(dataURIPrefix) || uri[:len(dataURIPrefix)] != dataURIPrefix {
		return nil, errors.New("not a JSON data URI")
	}
	body, err := url.PathUnescape(uri[len(dataURIPrefix):])
	if err != nil {
		return nil, err
	}
	return ParseTemplate([]byte(body))
}
