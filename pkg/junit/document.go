// Package junit parses JUnit-style XML result documents, as written by gtest
// and by the Java surefire runner, and normalizes their test cases.
package junit

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/htmlindex"
)

// ErrMalformedDocument is returned when the result document cannot be parsed.
var ErrMalformedDocument = errors.New("malformed result document")

// Attr is an XML attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the parsed document. Only element structure and
// attributes are kept; character data is dropped.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Walk visits e and its descendants in document order.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Find returns e and every descendant named name, in document order.
func (e *Element) Find(name string) []*Element {
	var out []*Element
	e.Walk(func(el *Element) {
		if el.Name == name {
			out = append(out, el)
		}
	})
	return out
}

// CountDescendants counts descendants of e named name, excluding e itself.
func (e *Element) CountDescendants(name string) int {
	n := 0
	for _, c := range e.Children {
		c.Walk(func(el *Element) {
			if el.Name == name {
				n++
			}
		})
	}
	return n
}

// ParseFile parses the result document at path.
func ParseFile(path string) (*Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open result document: %w", err)
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// Parse reads a whole XML document and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		root  *Element
		stack []*Element
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local, Attrs: make([]Attr, 0, len(t.Attr))}
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				el.Attrs = append(el.Attrs, Attr{Name: attrName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: content after root element", ErrMalformedDocument)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: text outside root element", ErrMalformedDocument)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unclosed element <%s>", ErrMalformedDocument, stack[len(stack)-1].Name)
	}
	return root, nil
}

// attrName renders namespaced attributes in {namespace}local form.
func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

func isNamespaceDecl(n xml.Name) bool {
	return n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns")
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
