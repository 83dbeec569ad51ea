package flow

import "fmt"

// Context carries data through a flow run. Input holds the caller-provided
// parameters, Process holds intermediate values steps hand to each other,
// and Output holds what the caller reads back.
type Context struct {
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
}

func NewContext(input map[string]any) *Context {
	if input == nil {
		input = make(map[string]any)
	}
	return &Context{
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
	}
}

func (c *Context) ExtractString(key string) string {
	raw, ok := c.Input[key]
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return s
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("required param [%v] is missing", paramName)
}
