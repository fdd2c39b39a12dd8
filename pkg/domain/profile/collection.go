package profile

// NoSelection is the selection index of an empty collection.
const NoSelection = -1

// Collection is the ordered list of profiles and the index of the one being
// edited. Selection is NoSelection exactly when the collection is empty.
//
// Collection is not safe for concurrent use; callers serialize access.
type Collection struct {
	profiles []*Profile
	selected int
}

// NewCollection builds a collection from profiles and selects the first one.
func NewCollection(profiles ...*Profile) *Collection {
	c := &Collection{profiles: append([]*Profile(nil), profiles...)}
	c.Select(0)
	return c
}

// Select makes profile i current. An out of range index falls back to the
// first profile, and an empty collection selects nothing.
func (c *Collection) Select(i int) {
	switch {
	case i >= 0 && i < len(c.profiles):
		c.selected = i
	case len(c.profiles) > 0:
		c.Select(0)
	default:
		c.selected = NoSelection
	}
}

// Selected returns the selection index.
func (c *Collection) Selected() int {
	return c.selected
}

// Current returns the selected profile, or nil when nothing is selected. A
// zero Collection has no current profile.
func (c *Collection) Current() *Profile {
	if c.selected < 0 || c.selected >= len(c.profiles) {
		return nil
	}
	return c.profiles[c.selected]
}

// Len returns the number of profiles.
func (c *Collection) Len() int {
	return len(c.profiles)
}

// At returns profile i.
func (c *Collection) At(i int) (*Profile, error) {
	if i < 0 || i >= len(c.profiles) {
		return nil, &IndexError{Kind: "profile", Index: i, Len: len(c.profiles)}
	}
	return c.profiles[i], nil
}

// IndexOf returns the position of p, compared by identity, or -1.
func (c *Collection) IndexOf(p *Profile) int {
	for i, q := range c.profiles {
		if q == p {
			return i
		}
	}
	return -1
}

// Profiles returns the profiles in order. The slice is a copy, the
// profiles are not.
func (c *Collection) Profiles() []*Profile {
	return append([]*Profile(nil), c.profiles...)
}

// Add appends a profile with default values and selects it.
func (c *Collection) Add() *Profile {
	return c.push(NewProfile())
}

// Copy appends a deep copy of p and selects it.
func (c *Collection) Copy(p *Profile) (*Profile, error) {
	if c.IndexOf(p) < 0 {
		return nil, ErrNotInCollection
	}
	return c.push(p.Clone()), nil
}

// Remove deletes p, compared by identity, and selects the first remaining
// profile. The previous selection is not preserved.
func (c *Collection) Remove(p *Profile) error {
	i := c.IndexOf(p)
	if i < 0 {
		return ErrNotInCollection
	}
	c.profiles = append(c.profiles[:i], c.profiles[i+1:]...)
	c.Select(0)
	return nil
}

func (c *Collection) push(p *Profile) *Profile {
	c.profiles = append(c.profiles, p)
	c.selected = len(c.profiles) - 1
	return p
}
