// Package layout models serialized mobile view hierarchies.
//
// A hierarchy document is an XML tree of UI nodes, as dumped by tools
// like uiautomator. [Parse] flattens the tree into a slice of [Element]
// values in document (pre-order) order, the root node included. Bounds
// attributes use the "[left,top][right,bottom]" format; values that
// fail to parse degrade to a zero rectangle rather than aborting the
// whole document.
package layout

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/screenlint/screenlint/pkg/errors"
)

// defaultBounds stands in for a missing bounds attribute.
const defaultBounds = "[0,0][0,0]"

// Options configures hierarchy parsing.
type Options struct {
	// Logger receives warnings for recoverable oddities such as
	// malformed bounds attributes (optional).
	Logger func(string, ...any)
}

// Parse flattens an XML view hierarchy into elements in document order.
//
// Every node becomes one [Element]. The traversal is iterative with an
// explicit parent stack, so arbitrarily deep hierarchies cannot
// overflow the call stack. A document that cannot be tokenized at all
// is an [errors.ErrCodeInvalidHierarchy] error; so is a document with
// no elements.
func Parse(data []byte, opts Options) ([]Element, error) {
	logger := opts.Logger
	if logger == nil {
		logger = func(string, ...any) {}
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		elements []Element
		stack    []int // indices of currently open elements
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidHierarchy, err, "parse hierarchy document")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := elementFromNode(t, logger)
			el.Parent = -1
			if len(stack) > 0 {
				el.Parent = stack[len(stack)-1]
			}
			elements = append(elements, el)
			stack = append(stack, len(elements)-1)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(elements) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidHierarchy, "document contains no elements")
	}
	return elements, nil
}

func elementFromNode(node xml.StartElement, logger func(string, ...any)) Element {
	el := Element{ElementType: node.Name.Local}
	rawBounds := defaultBounds
	for _, attr := range node.Attr {
		switch attr.Name.Local {
		case "bounds":
			rawBounds = attr.Value
		case "content-desc":
			el.ContentDesc = attr.Value
		case "text":
			el.Text = attr.Value
		case "clickable":
			el.Clickable = attr.Value == "true"
		case "focused":
			el.Focused = attr.Value == "true"
		case "enabled":
			el.Enabled = attr.Value == "true"
		case "resource-id":
			el.ResourceID = attr.Value
		case "class":
			el.ClassName = attr.Value
		}
	}
	bounds, err := ParseBounds(rawBounds)
	if err != nil {
		logger("failed to parse bounds %q: %v", rawBounds, err)
		bounds = Bounds{}
	}
	el.Bounds = bounds
	return el
}
