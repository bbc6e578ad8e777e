package xsd

import (
	"encoding/xml"

	"aqwari.net/xsdc/xmltree"
)

// processAttributeDecl resolves one <attribute> child of a complex
// type body into an Attribute descriptor. parent is the enclosing
// Element-kind Type's own name, used as the namespace and naming
// context for any synthetic type this attribute needs.
func (r *resolver) processAttributeDecl(el *xmltree.Element, parent xml.Name) Attribute {
	if refAttr := el.Attr("", "ref"); refAttr != "" {
		refName := el.Resolve(refAttr)
		if isXMLNamespaceAttr(refName) {
			str := xml.Name{Space: schemaNS, Local: "string"}
			r.processType(str)
			return Attribute{
				Name:       refName,
				Type:       str,
				Mandatory:  el.Attr("", "use") == "required",
				HasDefault: el.Attr("", "default") != "",
				Default:    el.Attr("", "default"),
			}
		}
		decl, ok := r.attributes[refName]
		if !ok {
			stopf("attribute ref %s (%s) not found", refName.Local, refName.Space)
		}
		return r.attributeFromDecl(decl, refName, el)
	}

	name := xml.Name{Space: parent.Space, Local: el.Attr("", "name")}
	if typeAttr := el.Attr("", "type"); typeAttr != "" {
		typ := el.Resolve(typeAttr)
		r.processType(typ)
		return Attribute{
			Name:       name,
			Type:       typ,
			Mandatory:  el.Attr("", "use") == "required",
			HasDefault: el.Attr("", "default") != "",
			Default:    el.Attr("", "default"),
		}
	}
	if inline := findInlineTypeChild(el); inline != nil {
		synth := xml.Name{Space: parent.Space, Local: name.Local + "_t"}
		r.processInlineType(synth, inline)
		return Attribute{
			Name:       name,
			Type:       synth,
			Mandatory:  el.Attr("", "use") == "required",
			HasDefault: el.Attr("", "default") != "",
			Default:    el.Attr("", "default"),
		}
	}
	// No ref, type, or inline type: XSD's implicit attribute type is
	// xs:string.
	typ := xml.Name{Space: schemaNS, Local: "string"}
	r.processType(typ)
	return Attribute{
		Name:       name,
		Type:       typ,
		Mandatory:  el.Attr("", "use") == "required",
		HasDefault: el.Attr("", "default") != "",
		Default:    el.Attr("", "default"),
	}
}

// attributeFromDecl builds an Attribute from a global <attribute>
// definition referenced from useSite via ref=. use= and default= at
// the reference site take priority over the ones on the declaration
// itself.
func (r *resolver) attributeFromDecl(decl *xmltree.Element, name xml.Name, useSite *xmltree.Element) Attribute {
	typ := r.resolveAttributeType(decl, name)

	mandatory := useSite.Attr("", "use") == "required"
	if !mandatory {
		mandatory = decl.Attr("", "use") == "required"
	}
	def := useSite.Attr("", "default")
	if def == "" {
		def = decl.Attr("", "default")
	}
	return Attribute{
		Name:       name,
		Type:       typ,
		Mandatory:  mandatory,
		HasDefault: def != "",
		Default:    def,
	}
}

func (r *resolver) resolveAttributeType(decl *xmltree.Element, name xml.Name) xml.Name {
	if typeAttr := decl.Attr("", "type"); typeAttr != "" {
		typ := decl.Resolve(typeAttr)
		r.processType(typ)
		return typ
	}
	if inline := findInlineTypeChild(decl); inline != nil {
		synth := xml.Name{Space: name.Space, Local: name.Local + "_t"}
		r.processInlineType(synth, inline)
		return synth
	}
	typ := xml.Name{Space: schemaNS, Local: "string"}
	r.processType(typ)
	return typ
}
