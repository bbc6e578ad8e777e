package xsd

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"aqwari.net/xsdc/xmltree"
)

// Graph is a Type Graph: every type reachable from a schema forest's
// root elements and force-processed names, keyed by Qualified Name.
type Graph map[xml.Name]*Type

// RootName is the Qualified Name of the synthetic root type every
// Resolve call produces; its Elements list enumerates the document's
// valid top-level elements.
func RootName(primaryNS string) xml.Name {
	return xml.Name{Space: primaryNS, Local: "_root_t"}
}

type resolver struct {
	cfg *Config

	graph Graph

	elements      map[xml.Name]*xmltree.Element
	complexTypes  map[xml.Name]*xmltree.Element
	simpleTypes   map[xml.Name]*xmltree.Element
	attributes    map[xml.Name]*xmltree.Element

	primaryNS string
}

// Resolve walks a loaded Forest and produces its Type Graph. The
// returned graph always contains RootName(primaryNS), where primaryNS
// is the target namespace of the first schema document passed to
// Load.
func (cfg *Config) Resolve(forest *Forest) (graph Graph, err error) {
	defer catchParseError(&err)

	r := &resolver{
		cfg:          cfg,
		graph:        make(Graph),
		elements:     make(map[xml.Name]*xmltree.Element),
		complexTypes: make(map[xml.Name]*xmltree.Element),
		simpleTypes:  make(map[xml.Name]*xmltree.Element),
		attributes:   make(map[xml.Name]*xmltree.Element),
	}
	if len(forest.Roots) > 0 {
		if schemas := schemaElements(forest.Roots[0]); len(schemas) > 0 {
			r.primaryNS = schemas[0].Attr("", "targetNamespace")
		}
	}

	r.index(forest)
	r.collectSubstitutionGroups()
	r.buildRoot()

	for _, name := range r.cfg.forceProcess {
		r.processType(xml.Name{Space: r.primaryNS, Local: name})
	}

	r.resolveSubstitutionRefs()
	return r.graph, nil
}

func (r *resolver) index(forest *Forest) {
	for _, root := range forest.Roots {
		for _, schema := range schemaElements(root) {
			ns := schema.Attr("", "targetNamespace")
			walk(schema, func(child *xmltree.Element) {
				local := child.Attr("", "name")
				if local == "" {
					return
				}
				qn := xml.Name{Space: ns, Local: local}
				switch child.Name.Local {
				case "element":
					if _, dup := r.elements[qn]; dup {
						panic(&CollisionError{Name: qn})
					}
					r.elements[qn] = child
				case "complexType":
					if _, dup := r.complexTypes[qn]; dup {
						panic(&CollisionError{Name: qn})
					}
					r.complexTypes[qn] = child
				case "simpleType":
					if _, dup := r.simpleTypes[qn]; dup {
						panic(&CollisionError{Name: qn})
					}
					r.simpleTypes[qn] = child
				case "attribute":
					if _, dup := r.attributes[qn]; dup {
						panic(&CollisionError{Name: qn})
					}
					r.attributes[qn] = child
				}
			})
		}
	}
}

func (r *resolver) buildRoot() {
	name := RootName(r.primaryNS)
	t := &Type{Name: name, Kind: Element}
	r.graph[name] = t

	for _, qn := range sortedNames(r.elements) {
		if qn.Space != r.primaryNS {
			continue
		}
		el := r.elements[qn]
		if parseBoolAttr(el.Attr("", "abstract")) {
			continue
		}
		if el.Attr("", "substitutionGroup") != "" {
			continue
		}
		typ := r.resolveElementType(el, qn.Space, "", qn.Local)
		t.Elements = append(t.Elements, ElementRef{Name: qn, Type: typ, MinOccurs: 0, MaxOccurs: 1})
	}
}

// processType returns the Type named name, building and inserting it
// into the graph first if necessary. The stub is inserted before any
// recursive processing of its children, so mutually-recursive types
// resolve in a single pass: a child reference to a type still being
// built observes the same *Type that will eventually be filled in.
func (r *resolver) processType(name xml.Name) *Type {
	if t, ok := r.graph[name]; ok {
		return t
	}
	if baseName, ok := builtinBaseName(name); ok {
		t := &Type{Name: name, Kind: Base, BaseName: baseName}
		r.graph[name] = t
		return t
	}
	if name.Space == schemaNS {
		t := &Type{Name: name, Kind: String}
		r.graph[name] = t
		return t
	}
	if name == (xml.Name{Space: xmlNamespace, Local: "lang"}) {
		t := &Type{Name: name, Kind: String}
		r.graph[name] = t
		return t
	}

	def, ok := r.lookupGlobalType(name)
	if !ok {
		stop((&TypeNotFoundError{Name: name}).Error())
	}
	return r.buildType(name, def)
}

func (r *resolver) lookupGlobalType(name xml.Name) (*xmltree.Element, bool) {
	if el, ok := r.complexTypes[name]; ok {
		return el, true
	}
	if el, ok := r.simpleTypes[name]; ok {
		return el, true
	}
	if el, ok := r.elements[name]; ok {
		return el, true
	}
	return nil, false
}

func (r *resolver) buildType(name xml.Name, def *xmltree.Element) *Type {
	t := &Type{Name: name}
	r.graph[name] = t
	switch def.Name.Local {
	case "simpleType":
		r.fillSimpleType(t, def)
	case "complexType":
		r.fillComplexType(t, def)
	case "element":
		r.fillElementAsType(t, def)
	default:
		stopf("unsupported global definition %s for type %s", def.Name.Local, name.Local)
	}
	return t
}

// processInlineType resolves an anonymous complexType or simpleType
// declared inline, under the synthesized name.
func (r *resolver) processInlineType(name xml.Name, def *xmltree.Element) *Type {
	if t, ok := r.graph[name]; ok {
		return t
	}
	t := &Type{Name: name}
	r.graph[name] = t
	switch def.Name.Local {
	case "simpleType":
		r.fillSimpleType(t, def)
	case "complexType":
		r.fillComplexType(t, def)
	default:
		stopf("unsupported inline definition %s for type %s", def.Name.Local, name.Local)
	}
	return t
}

func (r *resolver) fillElementAsType(t *Type, def *xmltree.Element) {
	if ct := findChild(def, "complexType"); ct != nil {
		r.fillComplexType(t, ct)
		return
	}
	typeAttr := def.Attr("", "type")
	if typeAttr == "" {
		stopf("element %s used as a type has neither complexType child nor type attribute", t.Name.Local)
	}
	base := def.Resolve(typeAttr)
	r.processType(base)
	t.Kind = SimpleRef
	t.BaseType = base
	t.HasBase = true
}

func (r *resolver) fillSimpleType(t *Type, def *xmltree.Element) {
	if restr := findChild(def, "restriction"); restr != nil {
		base := restr.Resolve(restr.Attr("", "base"))
		if base.Space == schemaNS && (base.Local == "normalizedString" || base.Local == "string") {
			var values []string
			for i := range restr.Children {
				child := &restr.Children[i]
				if child.Name.Space == schemaNS && child.Name.Local == "enumeration" {
					values = append(values, child.Attr("", "value"))
				}
			}
			if len(values) > 0 {
				t.Kind = Enum
				t.EnumValues = values
				return
			}
			t.Kind = String
			return
		}
		r.processType(base)
		t.Kind = SimpleRef
		t.BaseType = base
		t.HasBase = true
		return
	}
	if union := findChild(def, "union"); union != nil {
		t.Kind = Union
		for _, tok := range strings.Fields(union.Attr("", "memberTypes")) {
			member := union.Resolve(tok)
			r.processType(member)
			t.MemberTypes = append(t.MemberTypes, member)
		}
		return
	}
	if list := findChild(def, "list"); list != nil {
		t.Kind = List
		if itemAttr := list.Attr("", "itemType"); itemAttr != "" {
			item := list.Resolve(itemAttr)
			r.processType(item)
			t.ItemType = item
		} else if inline := findChild(list, "simpleType"); inline != nil {
			itemName := xml.Name{Space: t.Name.Space, Local: t.Name.Local + "_item_t"}
			r.processInlineType(itemName, inline)
			t.ItemType = itemName
		} else {
			item := xml.Name{Space: schemaNS, Local: "anySimpleType"}
			r.processType(item)
			t.ItemType = item
		}
		return
	}
	stopf("simpleType %s has no restriction, union, or list", t.Name.Local)
}

func (r *resolver) fillComplexType(t *Type, def *xmltree.Element) {
	t.Kind = Element
	if parseBoolAttr(def.Attr("", "mixed")) {
		t.Flags |= ReadText
		base := xml.Name{Space: schemaNS, Local: "string"}
		r.processType(base)
		t.BaseType = base
		t.HasBase = true
	}
	if sc := findChild(def, "simpleContent"); sc != nil {
		r.fillContentModel(t, sc)
		return
	}
	if cc := findChild(def, "complexContent"); cc != nil {
		r.fillContentModel(t, cc)
		return
	}
	r.fillComplexChildren(t, def)
}

func (r *resolver) fillContentModel(t *Type, content *xmltree.Element) {
	if ext := findChild(content, "extension"); ext != nil {
		base := ext.Resolve(ext.Attr("", "base"))
		if r.processType(base).Kind == String {
			t.Flags |= ReadText
		}
		t.BaseType = base
		t.HasBase = true
		r.fillComplexChildren(t, ext)
		return
	}
	if restr := findChild(content, "restriction"); restr != nil {
		// Restriction members are not walked: this type inherits its
		// base's shape unchanged. See fillComplexChildren's doc comment.
		base := restr.Resolve(restr.Attr("", "base"))
		if r.processType(base).Kind == String {
			t.Flags |= ReadText
		}
		t.BaseType = base
		t.HasBase = true
		return
	}
	stopf("%s/%s has neither extension nor restriction", content.Name.Space, content.Name.Local)
}

// fillComplexChildren processes the attribute, element-composite, and
// anyAttribute children shared by a top-level complexType body and an
// extension's body. A restriction's own members are intentionally not
// routed through this function; see fillContentModel.
func (r *resolver) fillComplexChildren(t *Type, def *xmltree.Element) {
	walk(def, func(child *xmltree.Element) {
		switch child.Name.Local {
		case "attribute":
			t.Attributes = append(t.Attributes, r.processAttributeDecl(child, t.Name))
		case "all", "sequence", "choice":
			r.processChildElements(t, child)
		case "anyAttribute":
			t.Flags |= AnyAttribute
		}
	})
}

func findChild(el *xmltree.Element, local string) *xmltree.Element {
	for i := range el.Children {
		child := &el.Children[i]
		if child.Name.Space == schemaNS && child.Name.Local == local {
			return child
		}
	}
	return nil
}

func findInlineTypeChild(el *xmltree.Element) *xmltree.Element {
	for i := range el.Children {
		child := &el.Children[i]
		if child.Name.Space != schemaNS {
			continue
		}
		if child.Name.Local == "complexType" || child.Name.Local == "simpleType" {
			return child
		}
	}
	return nil
}

func sortedNames(m map[xml.Name]*xmltree.Element) []xml.Name {
	names := make([]xml.Name, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i].Space != names[j].Space {
			return names[i].Space < names[j].Space
		}
		return names[i].Local < names[j].Local
	})
	return names
}

func stopf(format string, v ...interface{}) {
	stop(fmt.Sprintf(format, v...))
}
