// Package xmlutil provides a small mutable element tree over the
// standard library's encoding/xml, for attribute get/set on an otherwise
// opaque node tree (map.i3d, farmlands.xml, splines.i3d patching).
package xmlutil

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Node is a mutable XML element: a name, an ordered attribute list, a
// flat list of children, and any direct text content. It round-trips
// through decode/encode without relying on Go struct tags, mirroring
// ElementTree's untyped Element.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr
	Children []*Node
	Content  string
}

// Parse reads an XML document from path into a Node tree.
func Parse(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening xml file %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads an XML document from r into a Node tree.
func Decode(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{XMLName: t.Name, Attrs: append([]xml.Attr{}, t.Attr...)}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Content += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("decoding xml: empty document")
	}
	return root, nil
}

// Write serializes the tree to path with an XML declaration.
func (n *Node) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating xml file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("writing xml file %s: %w", path, err)
	}
	return nil
}

// MarshalXML lets Node round-trip through encoding/xml's encoder even
// though it wasn't decoded via struct tags.
func (n *Node) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: n.XMLName, Attr: n.Attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Content != "" {
		if err := enc.EncodeToken(xml.CharData(n.Content)); err != nil {
			return err
		}
	}
	for _, child := range n.Children {
		if err := child.MarshalXML(enc, xml.StartElement{}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: n.XMLName})
}

// Get returns an attribute's value and whether it was present.
func (n *Node) Get(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == key {
			return a.Value, true
		}
	}
	return "", false
}

// Set creates or updates an attribute.
func (n *Node) Set(key, value string) {
	for i, a := range n.Attrs {
		if a.Name.Local == key {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: key}, Value: value})
}

// SetAll applies every key/value pair in data via Set.
func (n *Node) SetAll(data map[string]string) {
	for k, v := range data {
		n.Set(k, v)
	}
}

// CreateChild appends a new element named tag with the given attributes
// and returns it.
func (n *Node) CreateChild(tag string, data map[string]string) *Node {
	child := &Node{XMLName: xml.Name{Local: tag}}
	child.SetAll(data)
	n.Children = append(n.Children, child)
	return child
}

// Find locates the first descendant matching a "/"-separated sequence of
// tag names, relative to n (n itself is not matched).
func (n *Node) Find(path string) *Node {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	current := []*Node{n}
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		var next []*Node
		for _, c := range current {
			for _, child := range c.Children {
				if child.XMLName.Local == part {
					next = append(next, child)
				}
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	if len(current) == 0 {
		return nil
	}
	return current[0]
}

// FindAll locates every descendant matching tag anywhere under n.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	for _, child := range n.Children {
		if child.XMLName.Local == tag {
			out = append(out, child)
		}
		out = append(out, child.FindAll(tag)...)
	}
	return out
}
