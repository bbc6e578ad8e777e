package runtime

import "testing"

// widget exercises a mandatory attribute, a defaulted attribute, and
// text content on the same element.
type widget struct {
	ID      string
	Kind    string
	Comment string
}

func widgetInfo() *ElementInfo {
	return &ElementInfo{
		Flags: ReadText,
		AddText: func(dst interface{}, text string) {
			w := dst.(*widget)
			w.Comment += text
		},
		Attributes: []AttributeInfo{
			{
				LocalName:   "id",
				IsMandatory: true,
				SetValue: func(dst interface{}, pos Position, value string) error {
					return SetString(&dst.(*widget).ID, pos, value)
				},
			},
			{
				LocalName: "kind",
				SetValue: func(dst interface{}, pos Position, value string) error {
					return SetString(&dst.(*widget).Kind, pos, value)
				},
				SetDefault: func(dst interface{}) {
					dst.(*widget).Kind = "standard"
				},
			},
		},
	}
}

func rootInfoFor(local string, info *ElementInfo, getField GetField) *ElementInfo {
	return &ElementInfo{
		Children: []ChildElementInfo{
			{LocalName: local, Info: info, GetField: getField, MinOccurs: 1, MaxOccurs: 1},
		},
		MandatoryChildrenCount: 1,
	}
}

func TestAttributeDefaultsAndMandatory(t *testing.T) {
	doc := []byte(`<widget id="w1">hello</widget>`)
	root := rootInfoFor("widget", widgetInfo(), func(p interface{}) interface{} { return p.(*widget) })

	result, err := Parse(doc, root, func() interface{} { return &widget{} })
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	w := result.(*widget)
	if w.ID != "w1" {
		t.Errorf("ID = %q, want w1", w.ID)
	}
	if w.Kind != "standard" {
		t.Errorf("Kind = %q, want the default standard", w.Kind)
	}
	if w.Comment != "hello" {
		t.Errorf("Comment = %q, want hello", w.Comment)
	}
}

func TestMissingMandatoryAttribute(t *testing.T) {
	doc := []byte(`<widget>hello</widget>`)
	root := rootInfoFor("widget", widgetInfo(), func(p interface{}) interface{} { return p.(*widget) })

	_, err := Parse(doc, root, func() interface{} { return &widget{} })
	if err == nil {
		t.Fatal("expected an error for a missing mandatory attribute")
	}
	if _, ok := err.(*VerificationError); !ok {
		t.Errorf("err = %T, want *VerificationError", err)
	}
}

// choiceHolder models a <choice maxOccurs="unbounded"> between two
// element alternatives, each of which becomes an optional,
// unbounded-repeating slot once flattened.
type choiceHolder struct {
	A []string
	B []string
}

func choiceInfo() *ElementInfo {
	return &ElementInfo{
		Children: []ChildElementInfo{
			{
				LocalName: "a",
				GetField: func(p interface{}) interface{} {
					h := p.(*choiceHolder)
					h.A = append(h.A, "")
					return &h.A[len(h.A)-1]
				},
				MinOccurs: 0,
				MaxOccurs: 0,
			},
			{
				LocalName: "b",
				GetField: func(p interface{}) interface{} {
					h := p.(*choiceHolder)
					h.B = append(h.B, "")
					return &h.B[len(h.B)-1]
				},
				MinOccurs: 0,
				MaxOccurs: 0,
			},
		},
	}
}

func TestChoiceUnderSequence(t *testing.T) {
	leafInfo := &ElementInfo{
		Flags: ReadText,
		AddText: func(dst interface{}, text string) {
			*dst.(*string) += text
		},
	}
	info := choiceInfo()
	info.Children[0].Info = leafInfo
	info.Children[1].Info = leafInfo

	doc := []byte(`<holder><a>1</a><b>2</b><a>3</a></holder>`)
	root := rootInfoFor("holder", info, func(p interface{}) interface{} { return p.(*choiceHolder) })

	result, err := Parse(doc, root, func() interface{} { return &choiceHolder{} })
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h := result.(*choiceHolder)
	if len(h.A) != 2 || h.A[0] != "1" || h.A[1] != "3" {
		t.Errorf("A = %v, want [1 3]", h.A)
	}
	if len(h.B) != 1 || h.B[0] != "2" {
		t.Errorf("B = %v, want [2]", h.B)
	}
}

// node is a recursive type: a node may contain further nodes.
type node struct {
	Name     string
	Children []*node
}

func nodeInfo() *ElementInfo {
	info := &ElementInfo{
		Attributes: []AttributeInfo{
			{
				LocalName: "name",
				SetValue: func(dst interface{}, pos Position, value string) error {
					return SetString(&dst.(*node).Name, pos, value)
				},
			},
		},
	}
	info.Children = []ChildElementInfo{
		{
			LocalName: "node",
			Info:      info,
			GetField: func(p interface{}) interface{} {
				n := p.(*node)
				child := &node{}
				n.Children = append(n.Children, child)
				return child
			},
			MinOccurs: 0,
			MaxOccurs: 0,
		},
	}
	return info
}

func TestRecursiveType(t *testing.T) {
	info := nodeInfo()
	doc := []byte(`<node name="top"><node name="left"><node name="leaf"/></node><node name="right"/></node>`)
	root := rootInfoFor("node", info, func(p interface{}) interface{} { return p.(*node) })

	result, err := Parse(doc, root, func() interface{} { return &node{} })
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	top := result.(*node)
	if top.Name != "top" || len(top.Children) != 2 {
		t.Fatalf("top = %+v", top)
	}
	if top.Children[0].Name != "left" || len(top.Children[0].Children) != 1 {
		t.Errorf("left child = %+v", top.Children[0])
	}
	if top.Children[0].Children[0].Name != "leaf" {
		t.Errorf("leaf = %+v", top.Children[0].Children[0])
	}
	if top.Children[1].Name != "right" {
		t.Errorf("right child = %+v", top.Children[1])
	}
}

// listHolder carries a list-typed attribute, whitespace-separated.
type listHolder struct {
	Items []string
}

func TestListTypedAttribute(t *testing.T) {
	info := &ElementInfo{
		Attributes: []AttributeInfo{
			{
				LocalName: "items",
				SetValue: func(dst interface{}, pos Position, value string) error {
					dst.(*listHolder).Items = ParseList(value)
					return nil
				},
			},
		},
	}
	doc := []byte(`<holder items="item1  item2 item3"/>`)
	root := rootInfoFor("holder", info, func(p interface{}) interface{} { return p.(*listHolder) })

	result, err := Parse(doc, root, func() interface{} { return &listHolder{} })
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h := result.(*listHolder)
	if len(h.Items) != 3 || h.Items[0] != "item1" || h.Items[1] != "item2" || h.Items[2] != "item3" {
		t.Errorf("Items = %v, want [item1 item2 item3]", h.Items)
	}
}

// skipHolder has a single element whose contents are captured
// verbatim rather than recursively parsed.
type skipHolder struct {
	Raw string
}

func TestSkipProcessContentsSubtree(t *testing.T) {
	info := &ElementInfo{
		Flags: ReadText | SkipProcessContents,
		AddText: func(dst interface{}, text string) {
			dst.(*skipHolder).Raw = text
		},
	}
	doc := []byte(`<holder><csa:value><csa:property>3</csa:property></csa:value></holder>`)
	root := rootInfoFor("holder", info, func(p interface{}) interface{} { return p.(*skipHolder) })

	result, err := Parse(doc, root, func() interface{} { return &skipHolder{} })
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h := result.(*skipHolder)
	want := `<csa:value><csa:property>3</csa:property></csa:value>`
	if h.Raw != want {
		t.Errorf("Raw = %q, want %q", h.Raw, want)
	}
}

// shapeHolder models a field reached through a substitution group:
// the schema declares one abstract "shape" element with two concrete
// members, "circle" and "square", both of which the resolver folds
// into the same aggregate and the emitter lists as alternative
// children of their one use site.
type shapeHolder struct {
	Shapes []string
}

func TestSubstitutionGroupMembers(t *testing.T) {
	leaf := &ElementInfo{
		Flags: ReadText,
		AddText: func(dst interface{}, text string) {
			*dst.(*string) += text
		},
	}
	appendShape := func(p interface{}) interface{} {
		h := p.(*shapeHolder)
		h.Shapes = append(h.Shapes, "")
		return &h.Shapes[len(h.Shapes)-1]
	}
	info := &ElementInfo{
		Children: []ChildElementInfo{
			{LocalName: "circle", Info: leaf, GetField: appendShape, MinOccurs: 0, MaxOccurs: 0},
			{LocalName: "square", Info: leaf, GetField: appendShape, MinOccurs: 0, MaxOccurs: 0},
		},
	}
	doc := []byte(`<holder><circle>red</circle><square>blue</square><circle>green</circle></holder>`)
	root := rootInfoFor("holder", info, func(p interface{}) interface{} { return p.(*shapeHolder) })

	result, err := Parse(doc, root, func() interface{} { return &shapeHolder{} })
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h := result.(*shapeHolder)
	if len(h.Shapes) != 3 || h.Shapes[0] != "red" || h.Shapes[1] != "blue" || h.Shapes[2] != "green" {
		t.Errorf("Shapes = %v, want [red blue green]", h.Shapes)
	}
}

// orderHolder has a scalar child element with no record of its own:
// its count is read as plain text and coerced straight into an int32
// field via the child's SetValue closure, with no Info descriptor.
type orderHolder struct {
	Count int32
}

func TestScalarChildElement(t *testing.T) {
	info := &ElementInfo{
		Children: []ChildElementInfo{
			{
				LocalName: "count",
				GetField: func(p interface{}) interface{} {
					return &p.(*orderHolder).Count
				},
				SetValue: func(dst interface{}, pos Position, value string) error {
					return SetInt32(dst.(*int32), pos, value)
				},
				MinOccurs: 1,
				MaxOccurs: 1,
			},
		},
		MandatoryChildrenCount: 1,
	}
	doc := []byte(`<holder><count>42</count></holder>`)
	root := rootInfoFor("holder", info, func(p interface{}) interface{} { return p.(*orderHolder) })

	result, err := Parse(doc, root, func() interface{} { return &orderHolder{} })
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h := result.(*orderHolder)
	if h.Count != 42 {
		t.Errorf("Count = %d, want 42", h.Count)
	}
}

func TestScalarChildElementMissingErrorsOnMinOccurs(t *testing.T) {
	info := &ElementInfo{
		Children: []ChildElementInfo{
			{
				LocalName: "count",
				GetField: func(p interface{}) interface{} {
					return &p.(*orderHolder).Count
				},
				SetValue: func(dst interface{}, pos Position, value string) error {
					return SetInt32(dst.(*int32), pos, value)
				},
				MinOccurs: 1,
				MaxOccurs: 1,
			},
		},
		MandatoryChildrenCount: 1,
	}
	doc := []byte(`<holder></holder>`)
	root := rootInfoFor("holder", info, func(p interface{}) interface{} { return p.(*orderHolder) })

	_, err := Parse(doc, root, func() interface{} { return &orderHolder{} })
	if err == nil {
		t.Fatal("expected an error for a missing mandatory child element")
	}
	if _, ok := err.(*VerificationError); !ok {
		t.Errorf("err = %T, want *VerificationError", err)
	}
}

func TestUnescapeEntities(t *testing.T) {
	cases := map[string]string{
		"a &amp; b":        "a & b",
		"&lt;tag&gt;":       "<tag>",
		"&#65;&#x42;":       "AB",
		"bad &nosuch; here": "bad &nosuch; here",
		"unterminated &amp": "unterminated &amp",
	}
	for in, want := range cases {
		if got := unescapeString([]byte(in)); got != want {
			t.Errorf("unescapeString(%q) = %q, want %q", in, got, want)
		}
	}
}
