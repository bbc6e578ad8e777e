package xsd

import (
	"encoding/xml"

	"aqwari.net/xsdc/xmltree"
)

// processChildElements walks one <all>, <sequence>, or <choice> body,
// appending resolved Element References to t.Elements. A <sequence>
// or <all> flattens directly into the enclosing composite. A
// <choice> is flattened the same way, but every reference it
// contributed has its MinOccurs forced to 0 and its MaxOccurs
// overwritten from the choice's own maxOccurs, turning the
// alternatives into mutually-optional siblings rather than a true
// sum type.
func (r *resolver) processChildElements(t *Type, composite *xmltree.Element) {
	before := len(t.Elements)

	walk(composite, func(child *xmltree.Element) {
		switch child.Name.Local {
		case "element":
			t.Elements = append(t.Elements, r.processElementRef(child, t.Name))
		case "any":
			pc := child.Attr("", "processContents")
			if pc == "skip" || pc == "lax" {
				t.Flags |= SkipProcessContents
			}
		case "all", "sequence", "choice":
			r.processChildElements(t, child)
		}
	})

	if composite.Name.Local == "choice" {
		max := parseOccurs(composite.Attr("", "maxOccurs"), 1)
		for i := before; i < len(t.Elements); i++ {
			t.Elements[i].MinOccurs = 0
			t.Elements[i].MaxOccurs = max
		}
	}
}

// processElementRef resolves one <element> child of a complex type's
// content model, found either directly or via <all>/<sequence>/
// <choice>. parent is the enclosing Element-kind Type's own name,
// used as the namespace and naming context for any synthetic type
// this reference needs.
func (r *resolver) processElementRef(el *xmltree.Element, parent xml.Name) ElementRef {
	if refAttr := el.Attr("", "ref"); refAttr != "" {
		refName := el.Resolve(refAttr)
		decl, ok := r.elements[refName]
		if !ok {
			stop((&TypeNotFoundError{Name: refName, By: parent}).Error())
		}
		typ := r.resolveElementType(decl, refName.Space, "", refName.Local)
		return ElementRef{
			Name:      refName,
			Type:      typ,
			RefName:   refName,
			MinOccurs: parseOccurs(el.Attr("", "minOccurs"), 1),
			MaxOccurs: parseOccurs(el.Attr("", "maxOccurs"), 1),
		}
	}

	name := el.ResolveDefault(el.Attr("", "name"), parent.Space)
	typ := r.resolveElementType(el, parent.Space, parent.Local, name.Local)
	return ElementRef{
		Name:      name,
		Type:      typ,
		MinOccurs: parseOccurs(el.Attr("", "minOccurs"), 1),
		MaxOccurs: parseOccurs(el.Attr("", "maxOccurs"), 1),
	}
}

// resolveElementType determines the Qualified Name of el's type,
// building it first if it is inline or requires promotion. ns is the
// namespace synthetic names are declared in; parentLocal is the
// enclosing complex type's local name, or "" for a top-level element,
// in which case the synthetic name omits the parent component.
func (r *resolver) resolveElementType(el *xmltree.Element, ns, parentLocal, local string) xml.Name {
	if typeAttr := el.Attr("", "type"); typeAttr != "" {
		typ := el.Resolve(typeAttr)
		resolved := r.processType(typ)
		if resolved.Kind == String {
			synth := synthTypeName(ns, parentLocal, local)
			r.ensurePromotedString(synth, typ)
			return synth
		}
		return typ
	}
	if inline := findInlineTypeChild(el); inline != nil {
		synth := synthTypeName(ns, parentLocal, local)
		r.processInlineType(synth, inline)
		return synth
	}
	any := xml.Name{Space: schemaNS, Local: "anyType"}
	r.processType(any)
	return any
}

// ensurePromotedString creates the synthetic Element-kind Type that
// gives a built-in-String-typed element its own record slot, per the
// element-typed-string promotion rule.
func (r *resolver) ensurePromotedString(synth, base xml.Name) {
	if _, ok := r.graph[synth]; ok {
		return
	}
	r.graph[synth] = &Type{
		Name:     synth,
		Kind:     Element,
		BaseType: base,
		HasBase:  true,
		Flags:    ReadText,
	}
}

func synthTypeName(ns, parentLocal, local string) xml.Name {
	if parentLocal == "" {
		return xml.Name{Space: ns, Local: local + "_t"}
	}
	return xml.Name{Space: ns, Local: parentLocal + "_" + local + "_t"}
}
