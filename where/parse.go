package where

import (
	"encoding/json"
	"fmt"
)

// ParseJSON decodes a filter tree from its JSON form. An object with a
// single "and", "or" or "not" key is a logical node; any other object is a
// field predicate:
//
//	{"and": [
//	  {"category": {"eq": "electronics"}},
//	  {"or": [{"price": {"lt": 50}}, {"stock": {"gt": 100}}]},
//	  {"not": {"isActive": {"eq": false}}}
//	]}
//
// A null or empty document parses to a nil node (no predicate).
func ParseJSON(data []byte) (Node, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse filter: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("filter must be an object, got %T", raw)
	}
	return parseObject(obj)
}

func parseObject(obj map[string]any) (Node, error) {
	if len(obj) == 0 {
		return Predicate{}, nil
	}
	if len(obj) == 1 {
		for key, value := range obj {
			switch key {
			case "and":
				children, err := parseChildren(key, value)
				return And(children), err
			case "or":
				children, err := parseChildren(key, value)
				return Or(children), err
			case "not":
				child, ok := value.(map[string]any)
				if !ok {
					return nil, fmt.Errorf(`"not" takes a single filter object`)
				}
				node, err := parseObject(child)
				if err != nil {
					return nil, err
				}
				return Not{Child: node}, nil
			}
		}
	}
	return parsePredicate(obj)
}

func parseChildren(key string, value any) ([]Node, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%q takes a list of filters", key)
	}
	children := make([]Node, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q children must be filter objects", key)
		}
		child, err := parseObject(obj)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return children, nil
}

func parsePredicate(obj map[string]any) (Node, error) {
	p := make(Predicate, len(obj))
	for field, raw := range obj {
		ops, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q must map to an operator object", field)
		}
		p[field] = OpSet(ops)
	}
	return p, nil
}
