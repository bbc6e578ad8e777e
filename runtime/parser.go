package runtime

import "encoding/xml"

// Context carries the state shared across one call to Parse: the
// scanner and the namespace-prefix bindings declared on the entry
// element, checked against the caller's namespace whitelist.
type Context struct {
	scanner    *scanner
	allowed    map[string]bool
	namespaces map[string]string
}

func newContext(data []byte, allowedNamespaces []string) *Context {
	allowed := make(map[string]bool, len(allowedNamespaces))
	for _, ns := range allowedNamespaces {
		allowed[ns] = true
	}
	return &Context{
		scanner:    newScanner(data),
		allowed:    allowed,
		namespaces: make(map[string]string),
	}
}

// Parse reads data as a single XML document and populates the record
// construct returns. info describes the set of elements that may
// legally appear as the document's root, mirroring the descriptor of
// any other element's children: the parser dispatches the single top
// -level tag against info exactly as it would a nested child.
//
// allowedNamespaces whitelists the target namespaces the generated
// package knows about; an xmlns binding on the root element naming
// any other namespace is rejected.
func Parse(data []byte, info *ElementInfo, construct func() interface{}, allowedNamespaces ...string) (interface{}, error) {
	ctx := newContext(data, allowedNamespaces)
	if err := ctx.skipProlog(); err != nil {
		return nil, err
	}
	tok, err := ctx.scanner.next()
	if err != nil {
		return nil, err
	}
	if tok.typ != tokStartTagBegin {
		return nil, &SyntaxError{Pos: tok.pos, Msg: "expected '<'"}
	}
	nameTok, err := ctx.scanner.next()
	if err != nil {
		return nil, err
	}
	if nameTok.typ != tokName {
		return nil, &SyntaxError{Pos: nameTok.pos, Msg: "expected element name"}
	}
	local := localName(nameTok.value)
	child, ok := lookupChild(info, local)
	if !ok {
		return nil, &VerificationError{Pos: nameTok.pos, Msg: "unexpected element " + local}
	}

	root := construct()
	target := child.GetField(root)
	if err := ctx.parseElement(child.Info, target, local, true); err != nil {
		return nil, err
	}
	return root, nil
}

// skipProlog discards leading whitespace and any "<?...?>" processing
// instructions, such as the XML declaration, before the root tag.
func (ctx *Context) skipProlog() error {
	s := ctx.scanner
	for {
		s.skipSpace()
		if s.eof() || s.data[s.pos] != '<' || s.at(1) != '?' {
			return nil
		}
		s.pos += 2
		for {
			if s.eof() {
				return &SyntaxError{Pos: s.position(), Msg: "unexpected end of file"}
			}
			if s.data[s.pos] == '\r' || s.data[s.pos] == '\n' {
				s.advanceNewline()
				continue
			}
			if s.data[s.pos] == '?' && s.at(1) == '>' {
				s.pos += 2
				break
			}
			s.pos++
		}
	}
}

// parseElement parses one element's attributes, then either its
// verbatim-captured subtree (SkipProcessContents) or its mixed
// text/child-element body, up through its matching end tag. info
// describes target's type; selfLocal is the local name the parser
// matches the closing tag against; isEntry allows xmlns bindings to
// appear among target's attributes.
func (ctx *Context) parseElement(info *ElementInfo, target interface{}, selfLocal string, isEntry bool) error {
	flat := flattenAttributes(info)
	var processed uint64
	startPos := ctx.scanner.position()

	for {
		tok, err := ctx.scanner.next()
		if err != nil {
			return err
		}
		switch tok.typ {
		case tokName:
			if err := ctx.readAttribute(info, flat, target, tok, &processed, isEntry); err != nil {
				return err
			}
		case tokTagEnd:
			return ctx.parseBody(info, flat, target, selfLocal, processed, startPos)
		case tokEmptyTagEnd:
			if err := finishAttributes(flat, target, processed, tok.pos); err != nil {
				return err
			}
			return finishChildren(info, nil, tok.pos)
		default:
			return &SyntaxError{Pos: tok.pos, Msg: "expected attribute name, '>', or '/>'"}
		}
	}
}

func (ctx *Context) readAttribute(info *ElementInfo, flat []*AttributeInfo, target interface{}, nameTok token, processed *uint64, isEntry bool) error {
	if err := ctx.expect(tokEquals); err != nil {
		return err
	}
	valTok, err := ctx.scanner.next()
	if err != nil {
		return err
	}
	if valTok.typ != tokString {
		return &SyntaxError{Pos: valTok.pos, Msg: "expected quoted attribute value"}
	}
	raw := nameTok.value
	local := localName(raw)
	prefix, hasPrefix := splitPrefix(raw)

	if raw == "xmlns" || (hasPrefix && prefix == "xmlns") {
		if !isEntry {
			return &VerificationError{Pos: nameTok.pos, Msg: "unexpected namespace binding " + raw}
		}
		if !ctx.allowed[valTok.value] {
			return &VerificationError{Pos: nameTok.pos, Msg: "unknown namespace " + valTok.value}
		}
		if raw == "xmlns" {
			ctx.namespaces[""] = valTok.value
		} else {
			ctx.namespaces[local] = valTok.value
		}
		return nil
	}
	if hasPrefix && prefix == "xsi" && local == "noNamespaceSchemaLocation" {
		return nil
	}

	idx, attr, ok := lookupAttr(flat, local)
	if !ok {
		if info.Flags.Has(AnyAttribute) && info.AnyAttributeSink != nil {
			return info.AnyAttributeSink(target, xml.Name{Local: local}, valTok.value)
		}
		return &VerificationError{Pos: nameTok.pos, Msg: "unexpected attribute " + local}
	}
	bit := uint64(1) << uint(idx)
	if *processed&bit != 0 {
		return &VerificationError{Pos: nameTok.pos, Msg: "repeated attribute " + local}
	}
	*processed |= bit
	return attr.SetValue(target, nameTok.pos, valTok.value)
}

func (ctx *Context) parseBody(info *ElementInfo, flat []*AttributeInfo, target interface{}, selfLocal string, processed uint64, startPos Position) error {
	if err := finishAttributes(flat, target, processed, startPos); err != nil {
		return err
	}

	if info.Flags.Has(SkipProcessContents) {
		raw, err := ctx.scanner.captureVerbatim(selfLocal)
		if err != nil {
			return err
		}
		if info.AddText != nil {
			info.AddText(target, raw)
		}
		if err := ctx.expect(tokEndTagBegin); err != nil {
			return err
		}
		return ctx.expectEndTag(selfLocal, info, nil, startPos)
	}

	counts := make(map[*ChildElementInfo]uint32)
	for {
		text, err := ctx.scanner.readText()
		if err != nil {
			return err
		}
		if text != "" && info.Flags.Has(ReadText) && info.AddText != nil {
			info.AddText(target, text)
		}
		tok, err := ctx.scanner.next()
		if err != nil {
			return err
		}
		switch tok.typ {
		case tokEndTagBegin:
			return ctx.expectEndTag(selfLocal, info, counts, startPos)
		case tokStartTagBegin:
			if err := ctx.parseChild(info, target, counts); err != nil {
				return err
			}
		default:
			return &SyntaxError{Pos: tok.pos, Msg: "expected text, '<', or '</'"}
		}
	}
}

func (ctx *Context) parseChild(info *ElementInfo, target interface{}, counts map[*ChildElementInfo]uint32) error {
	nameTok, err := ctx.scanner.next()
	if err != nil {
		return err
	}
	if nameTok.typ != tokName {
		return &SyntaxError{Pos: nameTok.pos, Msg: "expected element name"}
	}
	local := localName(nameTok.value)
	child, ok := lookupChild(info, local)
	if !ok {
		return &VerificationError{Pos: nameTok.pos, Msg: "unexpected element " + local}
	}
	count := counts[child]
	if child.MaxOccurs != 0 && count+1 > child.MaxOccurs {
		return &VerificationError{Pos: nameTok.pos, Msg: "maximum occurrence of " + local}
	}
	counts[child] = count + 1

	childTarget := child.GetField(target)
	if child.Info == nil {
		return ctx.parseScalarChild(local, child.SetValue, childTarget)
	}
	return ctx.parseElement(child.Info, childTarget, local, false)
}

// parseScalarChild parses a child element whose content is a single
// scalar value: no attributes, no nested elements, just character
// data up to its matching end tag. The opening "<name" has already
// been consumed by the caller; selfLocal is that name's local part.
func (ctx *Context) parseScalarChild(selfLocal string, setValue SetValue, target interface{}) error {
	startPos := ctx.scanner.position()
	tok, err := ctx.scanner.next()
	if err != nil {
		return err
	}
	switch tok.typ {
	case tokName:
		return &VerificationError{Pos: tok.pos, Msg: "unexpected attribute on " + selfLocal}
	case tokEmptyTagEnd:
		return setValue(target, startPos, "")
	case tokTagEnd:
		text, err := ctx.scanner.readText()
		if err != nil {
			return err
		}
		nextTok, err := ctx.scanner.next()
		if err != nil {
			return err
		}
		if nextTok.typ != tokEndTagBegin {
			return &VerificationError{Pos: nextTok.pos, Msg: "unexpected child element in " + selfLocal}
		}
		if err := ctx.readEndTagName(selfLocal); err != nil {
			return err
		}
		return setValue(target, startPos, text)
	default:
		return &SyntaxError{Pos: tok.pos, Msg: "expected attribute name, '>', or '/>'"}
	}
}

func (ctx *Context) expectEndTag(selfLocal string, info *ElementInfo, counts map[*ChildElementInfo]uint32, startPos Position) error {
	if err := ctx.readEndTagName(selfLocal); err != nil {
		return err
	}
	return finishChildren(info, counts, startPos)
}

// readEndTagName consumes a "</name>" already past its "</", checking
// name against selfLocal.
func (ctx *Context) readEndTagName(selfLocal string) error {
	nameTok, err := ctx.scanner.next()
	if err != nil {
		return err
	}
	if nameTok.typ != tokName {
		return &SyntaxError{Pos: nameTok.pos, Msg: "expected end tag name"}
	}
	if localName(nameTok.value) != selfLocal {
		return &SyntaxError{Pos: nameTok.pos, Msg: "mismatched end tag " + nameTok.value}
	}
	return ctx.expect(tokTagEnd)
}

func (ctx *Context) expect(want tokenType) error {
	tok, err := ctx.scanner.next()
	if err != nil {
		return err
	}
	if tok.typ != want {
		return &SyntaxError{Pos: tok.pos, Msg: "unexpected token"}
	}
	return nil
}

// lookupChild searches info's children, and then its base chain, for
// an element slot matching local.
func lookupChild(info *ElementInfo, local string) (*ChildElementInfo, bool) {
	for i := info; i != nil; i = i.Base {
		for j := range i.Children {
			if i.Children[j].LocalName == local {
				return &i.Children[j], true
			}
		}
	}
	return nil, false
}

// flattenAttributes collects every attribute slot reachable from
// info through its base chain into a single ordered list; its index
// in that list is the bit position the parser uses to track which
// attributes have been seen. A type's full inheritance chain is
// limited to 64 attributes so that bitmap always fits a uint64.
func flattenAttributes(info *ElementInfo) []*AttributeInfo {
	var flat []*AttributeInfo
	for i := info; i != nil; i = i.Base {
		for j := range i.Attributes {
			flat = append(flat, &i.Attributes[j])
		}
	}
	return flat
}

func lookupAttr(flat []*AttributeInfo, local string) (int, *AttributeInfo, bool) {
	for i, a := range flat {
		if a.LocalName == local {
			return i, a, true
		}
	}
	return 0, nil, false
}

func finishAttributes(flat []*AttributeInfo, target interface{}, processed uint64, pos Position) error {
	for i, a := range flat {
		bit := uint64(1) << uint(i)
		if processed&bit != 0 {
			continue
		}
		if a.IsMandatory {
			return &VerificationError{Pos: pos, Msg: "missing attribute " + a.LocalName}
		}
		if a.SetDefault != nil {
			a.SetDefault(target)
		}
	}
	return nil
}

func finishChildren(info *ElementInfo, counts map[*ChildElementInfo]uint32, pos Position) error {
	for i := info; i != nil; i = i.Base {
		if i.MandatoryChildrenCount == 0 {
			continue
		}
		for j := range i.Children {
			c := &i.Children[j]
			if counts[c] < c.MinOccurs {
				return &VerificationError{Pos: pos, Msg: "minimum occurrence of " + c.LocalName}
			}
		}
	}
	return nil
}
