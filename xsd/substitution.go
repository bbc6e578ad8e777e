package xsd

import (
	"encoding/xml"

	"aqwari.net/xsdc/xmltree"
)

// collectSubstitutionGroups scans every indexed global element for a
// substitutionGroup attribute and folds it into its head's aggregate
// type, named "<head>_group_t" in the head's namespace. Each member
// is appended with MinOccurs 0; an element already present under the
// same name is skipped.
func (r *resolver) collectSubstitutionGroups() {
	for _, name := range sortedNames(r.elements) {
		el := r.elements[name]
		sg := el.Attr("", "substitutionGroup")
		if sg == "" {
			continue
		}
		head := el.Resolve(sg)
		r.addSubstitutionMember(head, name, el)
	}
}

func (r *resolver) addSubstitutionMember(head, member xml.Name, el *xmltree.Element) {
	groupName := xml.Name{Space: head.Space, Local: head.Local + "_group_t"}
	t, ok := r.graph[groupName]
	if !ok {
		t = &Type{Name: groupName, Kind: SubstitutionGroup}
		r.graph[groupName] = t
	}
	for _, existing := range t.Elements {
		if existing.Name == member {
			return
		}
	}
	typ := r.resolveElementType(el, member.Space, "", member.Local)
	t.Elements = append(t.Elements, ElementRef{Name: member, Type: typ, MinOccurs: 0, MaxOccurs: 1})
}

// resolveSubstitutionRefs is the resolver's final pass: every Element
// Reference left with a non-empty RefName pointed at a ref= target
// that might have been a substitution group head. If a matching
// aggregate type exists, the reference is retargeted at it; otherwise
// RefName is cleared and the reference keeps resolving to the plain
// element it named.
func (r *resolver) resolveSubstitutionRefs() {
	var zero xml.Name
	for _, t := range r.graph {
		for i := range t.Elements {
			ref := &t.Elements[i]
			if ref.RefName == zero {
				continue
			}
			groupName := xml.Name{Space: ref.RefName.Space, Local: ref.RefName.Local + "_group_t"}
			if _, ok := r.graph[groupName]; ok {
				ref.Type = groupName
			} else {
				ref.RefName = zero
			}
		}
	}
}
