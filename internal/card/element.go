// Package card builds the result card view model, captures it as a PNG and
// delivers it by download or share.
package card

// Role marks how capture treats an element.
type Role int

const (
	RoleContainer Role = iota
	// RoleDisplay elements show animated values and carry a Final value.
	RoleDisplay
	RoleText
	RoleImage
	// RoleDecoration elements are purely decorative and hidden during capture.
	RoleDecoration
)

// Style is the mutable visual state capture touches.
type Style struct {
	Transform  string
	Transition string
	Hidden     bool
}

// Element is a node of the card tree.
type Element struct {
	ID       string
	Role     Role
	Text     string
	Final    string
	Src      string
	Style    Style
	Children []*Element
}

// Walk visits e and its descendants depth first.
func (e *Element) Walk(fn func(*Element)) {
	if e == nil {
		return
	}
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Find returns the first element with id, or nil.
func (e *Element) Find(id string) *Element {
	var found *Element
	e.Walk(func(el *Element) {
		if found == nil && el.ID == id {
			found = el
		}
	})
	return found
}

type elementState struct {
	style Style
	text  string
}

// snapshot records style and text of every element under root.
func snapshot(root *Element) map[*Element]elementState {
	saved := make(map[*Element]elementState)
	root.Walk(func(e *Element) {
		saved[e] = elementState{style: e.Style, text: e.Text}
	})
	return saved
}

func restore(saved map[*Element]elementState) {
	for e, st := range saved {
		e.Style = st.style
		e.Text = st.text
	}
}
