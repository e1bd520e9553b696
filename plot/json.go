package plot

import "encoding/json"

// Shapes marshal with a "type" field so clients can tell them apart.

func (r Rect) MarshalJSON() ([]byte, error) {
	type plain Rect
	return withType("rect", plain(r))
}

func (l Line) MarshalJSON() ([]byte, error) {
	type plain Line
	return withType("line", plain(l))
}

func (p Path) MarshalJSON() ([]byte, error) {
	type plain Path
	return withType("path", plain(p))
}

func (c Circle) MarshalJSON() ([]byte, error) {
	type plain Circle
	return withType("circle", plain(c))
}

func (w Wedge) MarshalJSON() ([]byte, error) {
	type plain Wedge
	return withType("wedge", plain(w))
}

func withType(kind string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head := `{"type":"` + kind + `"`
	if len(b) <= 2 {
		return []byte(head + "}"), nil
	}
	return append([]byte(head+","), b[1:]...), nil
}
