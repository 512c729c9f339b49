package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseExternalManifest reads the JSON description of what an external file
// declares:
//
//	{
//	  "functions": [{"name": "f", "parameters": [{"name": "a", "type": "number", "default": 1}], "returns": "number"}],
//	  "modules":   [{"name": "m", "parameters": [], "children": true}],
//	  "variables": [{"name": "v", "type": "vector3", "default": [0, 0, 1]}]
//	}
//
// Every symbol gets a fresh id.
func ParseExternalManifest(path string, mode IncludeMode, manifest []byte) (*ExternalReference, error) {
	if !gjson.ValidBytes(manifest) {
		return nil, errors.New("manifest is not valid JSON")
	}
	root := gjson.ParseBytes(manifest)

	ext := &ExternalReference{
		ID:   NewSymbolID(),
		Path: path,
		Mode: mode,
	}
	var err error
	root.Get("functions").ForEach(func(_, f gjson.Result) bool {
		var d *InvokableDescription
		if d, err = parseManifestInvokable(f, InvokableFunction); err != nil {
			return false
		}
		ext.Functions = append(ext.Functions, d)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("functions: %w", err)
	}
	root.Get("modules").ForEach(func(_, m gjson.Result) bool {
		var d *InvokableDescription
		if d, err = parseManifestInvokable(m, InvokableModule); err != nil {
			return false
		}
		ext.Modules = append(ext.Modules, d)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}
	root.Get("variables").ForEach(func(_, v gjson.Result) bool {
		var t PortType
		var def *Literal
		name := v.Get("name").String()
		if name == "" {
			err = errors.New("variable without a name")
			return false
		}
		if t, err = manifestType(v.Get("type")); err != nil {
			return false
		}
		if def, err = manifestDefault(v.Get("default"), t); err != nil {
			return false
		}
		ext.Variables = append(ext.Variables, &VariableDescription{
			ID:          NewSymbolID(),
			Name:        name,
			Description: v.Get("description").String(),
			Type:        t,
			Default:     def,
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("variables: %w", err)
	}
	return ext, nil
}

func parseManifestInvokable(r gjson.Result, kind InvokableKind) (*InvokableDescription, error) {
	d := &InvokableDescription{
		ID:          NewSymbolID(),
		Name:        r.Get("name").String(),
		Kind:        kind,
		Description: r.Get("description").String(),
	}
	if d.Name == "" {
		return nil, fmt.Errorf("%s without a name", kind)
	}
	if kind == InvokableFunction {
		t, err := manifestType(r.Get("returns"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
		d.ReturnType = t
	} else {
		d.SupportsChildren = r.Get("children").Bool()
	}

	var err error
	r.Get("parameters").ForEach(func(_, p gjson.Result) bool {
		param := ParameterDescription{
			Name:        p.Get("name").String(),
			Description: p.Get("description").String(),
		}
		if param.Name == "" {
			err = errors.New("parameter without a name")
			return false
		}
		if param.Type, err = manifestType(p.Get("type")); err != nil {
			return false
		}
		if param.Default, err = manifestDefault(p.Get("default"), param.Type); err != nil {
			return false
		}
		d.Parameters = append(d.Parameters, param)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	return d, nil
}

func manifestType(r gjson.Result) (PortType, error) {
	if !r.Exists() {
		return PortAny, nil
	}
	t, ok := ParsePortType(r.String())
	if !ok || !t.IsExpression() {
		return PortAny, fmt.Errorf("unknown value type %q", r.String())
	}
	return t, nil
}

func manifestDefault(r gjson.Result, t PortType) (*Literal, error) {
	if !r.Exists() {
		return nil, nil
	}
	var lit Literal
	switch {
	case r.IsBool():
		lit = BooleanLiteral(r.Bool())
	case r.Type == gjson.String:
		lit = StringLiteral(r.String())
	case r.Type == gjson.Number:
		lit = NumberLiteral(r.Float())
	case r.IsArray():
		items := r.Array()
		nums := make([]float64, len(items))
		for i, item := range items {
			if item.Type != gjson.Number {
				return nil, fmt.Errorf("default %s is not a numeric vector", r.Raw)
			}
			nums[i] = item.Float()
		}
		switch len(nums) {
		case 2:
			lit = Vector2Literal(nums[0], nums[1])
		case 3:
			lit = Vector3Literal(nums[0], nums[1], nums[2])
		default:
			return nil, fmt.Errorf("default %s must have 2 or 3 elements", r.Raw)
		}
	default:
		return nil, fmt.Errorf("unsupported default %s", r.Raw)
	}
	if want := MatchingLiteralKind(t); want != LiteralNone && want != lit.Kind {
		return nil, fmt.Errorf("default %s does not fit type %s", r.Raw, t)
	}
	return &lit, nil
}

// ParsePortType accepts a port type name in any case.
func ParsePortType(name string) (PortType, bool) {
	for _, t := range AllPortTypes() {
		if strings.EqualFold(t.String(), strings.TrimSpace(name)) {
			return t, true
		}
	}
	return PortAny, false
}
