package jsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/valyala/fastjson"
)

var paramsParserPool fastjson.ParserPool

// Params 是已解析的位置参数，仅在 Release 之前有效
type Params struct {
	parser *fastjson.Parser
	values []*fastjson.Value
}

// ParsePositional 将 params 解析为位置参数数组，并检查参数个数位于 [minArgs, maxArgs]
func ParsePositional(params json.RawMessage, minArgs, maxArgs int) (*Params, error) {
	if len(params) == 0 {
		if minArgs == 0 {
			return &Params{}, nil
		}
		return nil, fmt.Errorf("params is required")
	}

	p := paramsParserPool.Get()
	v, err := p.ParseBytes(params)
	if err != nil {
		paramsParserPool.Put(p)
		return nil, fmt.Errorf("params must be valid JSON: %v", err)
	}

	values, err := v.Array()
	if err != nil {
		paramsParserPool.Put(p)
		return nil, fmt.Errorf("params must be an array")
	}
	if len(values) < minArgs || len(values) > maxArgs {
		paramsParserPool.Put(p)
		if minArgs == maxArgs {
			return nil, fmt.Errorf("expected %d parameters, got %d", minArgs, len(values))
		}
		return nil, fmt.Errorf("expected %d to %d parameters, got %d", minArgs, maxArgs, len(values))
	}

	return &Params{parser: p, values: values}, nil
}

// Len 返回参数个数
func (p *Params) Len() int {
	return len(p.values)
}

// String 返回第 i 个字符串参数
func (p *Params) String(i int) (string, error) {
	if i >= len(p.values) {
		return "", fmt.Errorf("missing parameter %d", i)
	}
	b, err := p.values[i].StringBytes()
	if err != nil {
		return "", fmt.Errorf("parameter %d must be a string", i)
	}
	return string(b), nil
}

// OptionalBool 读取第 i 个对象参数中的布尔字段，参数或字段缺失时返回 false
func (p *Params) OptionalBool(i int, key string) (bool, error) {
	if i >= len(p.values) {
		return false, nil
	}
	obj := p.values[i]
	if obj.Type() == fastjson.TypeNull {
		return false, nil
	}
	if obj.Type() != fastjson.TypeObject {
		return false, fmt.Errorf("parameter %d must be an object", i)
	}

	field := obj.Get(key)
	if field == nil || field.Type() == fastjson.TypeNull {
		return false, nil
	}
	b, err := field.Bool()
	if err != nil {
		return false, fmt.Errorf("parameter %d field %s must be a boolean", i, key)
	}
	return b, nil
}

// Release 归还解析器，之后不得再访问参数
func (p *Params) Release() {
	if p.parser != nil {
		paramsParserPool.Put(p.parser)
		p.parser = nil
		p.values = nil
	}
}
