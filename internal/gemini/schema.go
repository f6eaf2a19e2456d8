// ABOUTME: Converts MCP tool input schemas into Gemini function parameter schemas
// ABOUTME: Keeps only keywords Gemini accepts and inlines local $ref definitions
package gemini

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

// maxRefDepth bounds $ref expansion. Recursive definitions are cut off
// as a bare object past this depth.
const maxRefDepth = 8

// CleanSchema converts a JSON schema value (a decoded map, raw JSON, or
// a *jsonschema.Schema) into a genai.Schema. Keywords Gemini rejects,
// such as additionalProperties or $schema, are dropped.
func CleanSchema(raw any) (*genai.Schema, error) {
	root, err := toJSONSchema(raw)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	c := &converter{root: root}
	return c.convert(root, 0)
}

func toJSONSchema(raw any) (*jsonschema.Schema, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case *jsonschema.Schema:
		return v, nil
	case json.RawMessage:
		return decodeSchema(v)
	case []byte:
		return decodeSchema(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal schema: %w", err)
		}
		return decodeSchema(data)
	}
}

func decodeSchema(data []byte) (*jsonschema.Schema, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return &s, nil
}

type converter struct {
	root *jsonschema.Schema
}

func (c *converter) convert(s *jsonschema.Schema, depth int) (*genai.Schema, error) {
	if s == nil {
		return nil, nil
	}

	if s.Ref != "" {
		if depth >= maxRefDepth {
			return &genai.Schema{Type: genai.TypeObject, Description: s.Description}, nil
		}
		target, err := c.resolve(s.Ref)
		if err != nil {
			return nil, err
		}
		out, err := c.convert(target, depth+1)
		if err != nil {
			return nil, err
		}
		if s.Description != "" {
			out.Description = s.Description
		}
		return out, nil
	}

	out := &genai.Schema{
		Title:         s.Title,
		Description:   s.Description,
		Format:        s.Format,
		Pattern:       s.Pattern,
		Minimum:       s.Minimum,
		Maximum:       s.Maximum,
		MinLength:     toInt64(s.MinLength),
		MaxLength:     toInt64(s.MaxLength),
		MinItems:      toInt64(s.MinItems),
		MaxItems:      toInt64(s.MaxItems),
		MinProperties: toInt64(s.MinProperties),
		MaxProperties: toInt64(s.MaxProperties),
		Required:      s.Required,
	}

	c.setType(out, s)

	for _, e := range s.Enum {
		out.Enum = append(out.Enum, fmt.Sprint(e))
	}
	if len(out.Enum) > 0 && out.Type == "" {
		out.Type = genai.TypeString
	}
	if len(out.Enum) > 0 && out.Type == genai.TypeString && out.Format == "" {
		out.Format = "enum"
	}

	if len(s.Default) > 0 {
		var def any
		if err := json.Unmarshal(s.Default, &def); err == nil {
			out.Default = def
		}
	}
	if len(s.Examples) > 0 {
		out.Example = s.Examples[0]
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		names := make([]string, 0, len(s.Properties))
		for name := range s.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			prop, err := c.convert(s.Properties[name], depth)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", name, err)
			}
			out.Properties[name] = prop
		}
		out.PropertyOrdering = names
	}

	if s.Items != nil {
		items, err := c.convert(s.Items, depth)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		out.Items = items
	}

	variants := append(append([]*jsonschema.Schema{}, s.AnyOf...), s.OneOf...)
	for i, v := range variants {
		if isNullSchema(v) {
			out.Nullable = genai.Ptr(true)
			continue
		}
		sub, err := c.convert(v, depth)
		if err != nil {
			return nil, fmt.Errorf("anyOf[%d]: %w", i, err)
		}
		out.AnyOf = append(out.AnyOf, sub)
	}

	return out, nil
}

// setType maps "type" (a single name or a list) onto Gemini's enum. A
// list containing "null" marks the schema nullable.
func (c *converter) setType(out *genai.Schema, s *jsonschema.Schema) {
	types := s.Types
	if s.Type != "" {
		types = []string{s.Type}
	}
	for _, t := range types {
		if t == "null" {
			if len(types) > 1 {
				out.Nullable = genai.Ptr(true)
				continue
			}
		}
		if out.Type == "" {
			out.Type = genai.Type(strings.ToUpper(t))
		}
	}
}

func (c *converter) resolve(ref string) (*jsonschema.Schema, error) {
	var defs map[string]*jsonschema.Schema
	var name string
	switch {
	case strings.HasPrefix(ref, "#/$defs/"):
		defs, name = c.root.Defs, strings.TrimPrefix(ref, "#/$defs/")
	case strings.HasPrefix(ref, "#/definitions/"):
		defs, name = c.root.Definitions, strings.TrimPrefix(ref, "#/definitions/")
	default:
		return nil, fmt.Errorf("unsupported $ref %q", ref)
	}
	target, ok := defs[name]
	if !ok || target == nil {
		return nil, fmt.Errorf("unresolved $ref %q", ref)
	}
	return target, nil
}

func isNullSchema(s *jsonschema.Schema) bool {
	return s != nil && s.Type == "null" && len(s.Types) == 0
}

func toInt64(p *int) *int64 {
	if p == nil {
		return nil
	}
	v := int64(*p)
	return &v
}
