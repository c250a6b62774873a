package email

import "slices"

// TagSet is an ordered set of tags. The zero value is ready to use.
type TagSet struct {
	index map[string]struct{}
	order []string
}

func NewTagSet(tags ...string) *TagSet {
	t := &TagSet{}
	for _, tag := range tags {
		t.Add(tag)
	}
	return t
}

// Add appends tag unless it is empty or already present.
func (t *TagSet) Add(tag string) {
	if tag == "" {
		return
	}
	if t.index == nil {
		t.index = make(map[string]struct{})
	}
	if _, ok := t.index[tag]; ok {
		return
	}

	t.index[tag] = struct{}{}
	t.order = append(t.order, tag)
}

// Remove deletes tag and reports whether it was present.
func (t *TagSet) Remove(tag string) bool {
	if _, ok := t.index[tag]; !ok {
		return false
	}

	delete(t.index, tag)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == tag })

	return true
}

func (t *TagSet) Has(tag string) bool {
	_, ok := t.index[tag]
	return ok
}

// Values returns the tags in insertion order.
func (t *TagSet) Values() []string {
	return slices.Clone(t.order)
}

func (t *TagSet) Len() int {
	return len(t.order)
}
