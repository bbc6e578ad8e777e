package xsd

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/charset"

	"aqwari.net/xsdc/xmltree"
)

// maxImportDepth bounds the recursive <import>/<include> walk, so a
// cyclic or pathological schema forest cannot loop forever.
const maxImportDepth = 32

// A schemaLocation containing platformPrefix is reduced to its base
// file name before it is joined to the including document's directory.
// Some schema authors write schemaLocation values such as
// "platform:/resource/project/schema.xsd" that are meaningful inside
// an IDE workspace but not on a plain filesystem; keeping only the file
// name lets such locations resolve to a sibling file next to the
// importing document.
const platformPrefix = "platform:"

// Ref names a schema document referenced by an <import> or <include>
// element: its target namespace (possibly empty, for include) and the
// schemaLocation used to find it on disk.
type Ref struct {
	Namespace string
	Location  string
}

// Forest is a loaded, but not yet resolved, collection of schema
// documents: one *xmltree.Element per loaded file, in load order, the
// file given to Load first. A root is either a <schema> element or a
// wrapper element holding one or more of them.
type Forest struct {
	Roots []*xmltree.Element
}

// Load reads the XSD file at path and every schema document it
// transitively imports or includes, returning the resulting Forest.
// Locations are resolved relative to the directory of the document
// that references them; Load does not fetch documents over a network.
func (cfg *Config) Load(filename string) (*Forest, error) {
	have := make(map[string]bool)
	var roots []*xmltree.Element

	root, err := cfg.loadFile(filename)
	if err != nil {
		return nil, err
	}
	roots = append(roots, root)
	for _, ns := range targetNamespaces(root) {
		have[ns] = true
	}

	more, err := cfg.loadDeps(root, filepath.Dir(filename), have, 1)
	if err != nil {
		return nil, err
	}
	roots = append(roots, more...)
	return &Forest{Roots: roots}, nil
}

func (cfg *Config) loadFile(filename string) (*xmltree.Element, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := charset.NewReaderLabel("utf-8", f)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}
	cfg.debugf("read %s", filename)
	return root, nil
}

func (cfg *Config) loadDeps(root *xmltree.Element, dir string, have map[string]bool, depth int) ([]*xmltree.Element, error) {
	if depth > maxImportDepth {
		return nil, fmt.Errorf("maximum schema import depth of %d reached", maxImportDepth)
	}
	var result []*xmltree.Element
	for _, ref := range imports(root) {
		if ref.Namespace != "" && have[ref.Namespace] {
			continue
		}
		if ref.Location == "" {
			if ref.Namespace != "" {
				cfg.logf("no schemaLocation given for namespace %q; assuming it is available out of band", ref.Namespace)
			}
			continue
		}
		loc := resolveLocation(dir, ref.Location)
		child, err := cfg.loadFile(loc)
		if err != nil {
			return nil, err
		}
		result = append(result, child)
		for _, ns := range targetNamespaces(child) {
			have[ns] = true
		}
		more, err := cfg.loadDeps(child, filepath.Dir(loc), have, depth+1)
		if err != nil {
			return nil, err
		}
		result = append(result, more...)
	}
	return result, nil
}

// resolveLocation joins a schemaLocation to the directory of the
// document that referenced it, reducing any platformPrefix to a bare
// file name first.
func resolveLocation(dir, location string) string {
	if i := strings.Index(location, platformPrefix); i >= 0 {
		location = path.Base(location)
	}
	if filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(dir, location)
}

// imports returns every <import> and <include> reference found
// anywhere in root's document, whether root itself is a <schema>
// element or a wrapper document containing one or more of them.
func imports(root *xmltree.Element) []Ref {
	var result []Ref
	for _, schema := range schemaElements(root) {
		ns := schema.Attr("", "targetNamespace")
		for _, el := range schema.Search(schemaNS, "import") {
			result = append(result, Ref{
				Namespace: el.Attr("", "namespace"),
				Location:  el.Attr("", "schemaLocation"),
			})
		}
		for _, el := range schema.Search(schemaNS, "include") {
			result = append(result, Ref{
				Namespace: ns,
				Location:  el.Attr("", "schemaLocation"),
			})
		}
	}
	return result
}

// schemaElements returns every <schema> root found in a document; a
// document may itself be a bare <schema>, or may wrap one or more
// <schema> elements (as with WSDL <types> sections, which this loader
// otherwise ignores).
func schemaElements(root *xmltree.Element) []*xmltree.Element {
	if root.Name == (xml.Name{Space: schemaNS, Local: "schema"}) {
		return []*xmltree.Element{root}
	}
	return root.Search(schemaNS, "schema")
}

func targetNamespaces(root *xmltree.Element) []string {
	var result []string
	for _, schema := range schemaElements(root) {
		result = append(result, schema.Attr("", "targetNamespace"))
	}
	return result
}
