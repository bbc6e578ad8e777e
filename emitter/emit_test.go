package emitter

import (
	"encoding/xml"
	"strings"
	"testing"

	"aqwari.net/xsdc/xsd"
)

const testNS = "urn:test"

func qn(local string) xml.Name { return xml.Name{Space: testNS, Local: local} }
func sqn(local string) xml.Name { return xml.Name{Space: schemaNS, Local: local} }

// TestEmitWidgetStruct exercises a complex type with a mandatory
// string attribute, an optional repeated child element, and a root
// that references it, checking the generated source declares the
// struct, its descriptor table, and the package's fixed entry points.
func TestEmitWidgetStruct(t *testing.T) {
	graph := xsd.Graph{
		sqn("string"): {Name: sqn("string"), Kind: xsd.String},
		qn("widget_t"): {
			Name: qn("widget_t"),
			Kind: xsd.Element,
			Attributes: []xsd.Attribute{
				{Name: qn("id"), Type: sqn("string"), Mandatory: true},
			},
		},
		xsd.RootName(testNS): {
			Name: xsd.RootName(testNS),
			Kind: xsd.Element,
			Elements: []xsd.ElementRef{
				{Name: qn("widget"), Type: qn("widget_t"), MinOccurs: 0, MaxOccurs: 0},
			},
		},
	}

	var cfg Config
	cfg.Option(PackageName("widgets"))

	src, err := cfg.Emit(graph, xsd.RootName(testNS))
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	out := string(src)

	for _, want := range []string{
		"package widgets",
		"type WidgetType struct",
		"Id string",
		"var widgetTypeInfo = runtime.ElementInfo{",
		"IsMandatory: true",
		"func NewRoot() interface{}",
		"var RootInfo = &",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated source missing %q:\n%s", want, out)
		}
	}
}

// TestEmitSimpleRefDefaultNumeric exercises the case that motivated
// underlyingScalarGoType: an attribute typed as a named alias for a
// numeric built-in, carrying a default value. The rendered default
// literal must not quote a numeral as if the alias aliased a string.
func TestEmitSimpleRefDefaultNumeric(t *testing.T) {
	graph := xsd.Graph{
		sqn("int"): {Name: sqn("int"), Kind: xsd.Base, BaseName: "int32"},
		qn("priority_t"): {
			Name:     qn("priority_t"),
			Kind:     xsd.SimpleRef,
			BaseType: sqn("int"),
			HasBase:  true,
		},
		qn("task_t"): {
			Name: qn("task_t"),
			Kind: xsd.Element,
			Attributes: []xsd.Attribute{
				{Name: qn("priority"), Type: qn("priority_t"), HasDefault: true, Default: "5"},
			},
		},
	}

	var cfg Config
	cfg.Option(PackageName("tasks"))

	src, err := cfg.Emit(graph, xml.Name{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	out := string(src)

	if !strings.Contains(out, "type PriorityType int32") {
		t.Errorf("expected PriorityType alias over int32, got:\n%s", out)
	}
	if !strings.Contains(out, "v.Priority = PriorityType(5)") {
		t.Errorf("expected unquoted numeric default cast, got:\n%s", out)
	}
	if strings.Contains(out, `PriorityType("5")`) {
		t.Errorf("numeric default was quoted as a string literal:\n%s", out)
	}
}

// TestEmitEnumAndList checks that an Enum-kind type emits its value
// table and that a List-kind type emits a slice alias.
func TestEmitEnumAndList(t *testing.T) {
	graph := xsd.Graph{
		sqn("string"): {Name: sqn("string"), Kind: xsd.String},
		sqn("int"):    {Name: sqn("int"), Kind: xsd.Base, BaseName: "int32"},
		qn("color_t"): {
			Name:       qn("color_t"),
			Kind:       xsd.Enum,
			EnumValues: []string{"red", "green", "blue"},
		},
		qn("ints_t"): {
			Name:     qn("ints_t"),
			Kind:     xsd.List,
			ItemType: sqn("int"),
		},
		qn("swatch_t"): {
			Name: qn("swatch_t"),
			Kind: xsd.Element,
			Attributes: []xsd.Attribute{
				{Name: qn("shade"), Type: qn("color_t"), Mandatory: true},
				{Name: qn("sizes"), Type: qn("ints_t")},
			},
		},
	}

	var cfg Config
	cfg.Option(PackageName("swatches"))

	src, err := cfg.Emit(graph, xml.Name{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	out := string(src)

	for _, want := range []string{
		"type ColorType string",
		`var colorTypeValues = []string{"red", "green", "blue"}`,
		"func (v ColorType) String() string {\n\treturn string(v)\n}",
		"type IntsType []int32",
		"runtime.ParseEnum(colorTypeValues, pos, value)",
		"runtime.ParseList(value)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated source missing %q:\n%s", want, out)
		}
	}
}

// TestEmitSubstitutionGroupScalarMember covers a substitution group
// whose member element is typed as a bare numeric built-in rather
// than a complex type. resolveElementType never promotes a numeric
// built-in into a record, so the member's ChildElementInfo must fall
// back to a SetValue closure exactly as an ordinary scalar child
// element would.
func TestEmitSubstitutionGroupScalarMember(t *testing.T) {
	graph := xsd.Graph{
		sqn("int"): {Name: sqn("int"), Kind: xsd.Base, BaseName: "int32"},
		qn("reading_group_t"): {
			Name: qn("reading_group_t"),
			Kind: xsd.SubstitutionGroup,
			Elements: []xsd.ElementRef{
				{Name: qn("celsius"), Type: sqn("int"), MinOccurs: 0, MaxOccurs: 1},
			},
		},
	}

	var cfg Config
	cfg.Option(PackageName("sensors"))

	src, err := cfg.Emit(graph, xml.Name{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	out := string(src)

	if !strings.Contains(out, "Celsius *int32") {
		t.Errorf("expected Celsius *int32 field, got:\n%s", out)
	}
	if strings.Contains(out, "Info: &") {
		t.Errorf("scalar substitution member should not carry an Info descriptor:\n%s", out)
	}
	if !strings.Contains(out, "runtime.SetInt32(dst.(*int32), pos, value)") {
		t.Errorf("expected scalar substitution member SetValue calling SetInt32, got:\n%s", out)
	}
}

// TestEmitScalarChildElement covers a numeric, unpromoted child
// element: its ChildElementInfo must carry a SetValue closure rather
// than a nested Info descriptor, since there is no record to recurse
// into.
func TestEmitScalarChildElement(t *testing.T) {
	graph := xsd.Graph{
		sqn("int"): {Name: sqn("int"), Kind: xsd.Base, BaseName: "int32"},
		qn("order_t"): {
			Name: qn("order_t"),
			Kind: xsd.Element,
			Elements: []xsd.ElementRef{
				{Name: qn("count"), Type: sqn("int"), MinOccurs: 1, MaxOccurs: 1},
			},
		},
	}

	var cfg Config
	cfg.Option(PackageName("orders"))

	src, err := cfg.Emit(graph, xml.Name{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	out := string(src)

	if !strings.Contains(out, "Count int32") {
		t.Errorf("expected bare Count int32 field, got:\n%s", out)
	}
	if strings.Contains(out, "Info: &") {
		t.Errorf("scalar child should not carry an Info descriptor:\n%s", out)
	}
	if !strings.Contains(out, "runtime.SetInt32(dst.(*int32), pos, value)") {
		t.Errorf("expected scalar child SetValue calling SetInt32, got:\n%s", out)
	}
}
