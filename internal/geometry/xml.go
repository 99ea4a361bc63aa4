package geometry

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// LoadXML reads shape definitions from a file laid out as
//
//	<config><shapes><shape><type>ring</type><charge>1</charge>...</shape></shapes></config>
//
// The config element may be the root or sit anywhere below it, but there must
// be exactly one, holding exactly one shapes section.
func LoadXML(path string) ([]ShapeDef, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("geometry: read %s: %w", path, err)
	}
	defs, err := shapesFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// DecodeXML is LoadXML on an in-memory document.
func DecodeXML(data []byte) ([]ShapeDef, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("geometry: parse XML: %w", err)
	}
	return shapesFromDocument(doc)
}

func shapesFromDocument(doc *etree.Document) ([]ShapeDef, error) {
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrXMLLayout)
	}
	configs := doc.FindElements("//config")
	switch len(configs) {
	case 0:
		return nil, fmt.Errorf("%w: no config section", ErrXMLLayout)
	case 1:
	default:
		return nil, fmt.Errorf("%w: more than one config section", ErrXMLLayout)
	}
	sections := configs[0].FindElements(".//shapes")
	switch len(sections) {
	case 0:
		return nil, fmt.Errorf("%w: no shapes section in config", ErrXMLLayout)
	case 1:
	default:
		return nil, fmt.Errorf("%w: more than one shapes section in config", ErrXMLLayout)
	}

	var defs []ShapeDef
	for i, el := range sections[0].FindElements(".//shape") {
		params, err := simpleObject(el)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		def, err := defFromParams(params)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// simpleObject flattens an element whose children are all text leaves.
func simpleObject(el *etree.Element) (map[string]string, error) {
	out := make(map[string]string)
	for _, child := range el.ChildElements() {
		if len(child.ChildElements()) > 0 {
			return nil, fmt.Errorf("%w: <%s> is not a simple value", ErrXMLLayout, child.Tag)
		}
		key := strings.ToLower(child.Tag)
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("%w: <%s>", ErrDuplicate, child.Tag)
		}
		out[key] = strings.TrimSpace(child.Text())
	}
	return out, nil
}
