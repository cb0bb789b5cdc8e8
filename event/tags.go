package event

// Tag is a single event tag: a name followed by its values.
type Tag []string

// Tags is the ordered tag list of an event.
type Tags []Tag

// First returns the first tag with the given name, or nil.
func (t Tags) First(name string) Tag {
	for _, tag := range t {
		if len(tag) > 0 && tag[0] == name {
			return tag
		}
	}
	return nil
}

// Value returns the first value of the first tag with the given name, or "".
func (t Tags) Value(name string) string {
	tag := t.First(name)
	if len(tag) < 2 {
		return ""
	}
	return tag[1]
}
