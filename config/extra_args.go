package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Arg is one extra_args entry.
type Arg struct {
	Name string
	// Switch is set for boolean values: true emits the bare option, false drops it.
	Switch *bool
	Values []string
}

// ExtraArgs keeps the declaration order of a repository's extra_args mapping.
type ExtraArgs []Arg

func (a *ExtraArgs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: extra_args must be a mapping", value.Line)
	}

	args := make(ExtraArgs, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		arg := Arg{Name: key.Value}

		switch val.Kind {
		case yaml.ScalarNode:
			switch val.ShortTag() {
			case "!!null":
				continue
			case "!!bool":
				var b bool
				if err := val.Decode(&b); err != nil {
					return fmt.Errorf("extra_args.%s: %w", key.Value, err)
				}
				arg.Switch = &b
			default:
				if b, ok := legacyBool(val); ok {
					arg.Switch = &b
					break
				}
				arg.Values = []string{val.Value}
			}
		case yaml.SequenceNode:
			for _, item := range val.Content {
				if item.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: extra_args.%s items must be scalars", item.Line, key.Value)
				}
				arg.Values = append(arg.Values, item.Value)
			}
		default:
			return fmt.Errorf("line %d: extra_args.%s must be a scalar or a list", val.Line, key.Value)
		}

		args = append(args, arg)
	}

	*a = args
	return nil
}

// legacyBool reports the YAML 1.1 booleans (yes/no/on/off) that YAML 1.2
// reads as strings. Quoted scalars stay strings.
func legacyBool(val *yaml.Node) (bool, bool) {
	if val.Style != 0 {
		return false, false
	}
	switch val.Value {
	case "yes", "Yes", "YES", "on", "On", "ON":
		return true, true
	case "no", "No", "NO", "off", "Off", "OFF":
		return false, true
	}
	return false, false
}

// Argv renders the option the way borg expects it: one-letter names become
// "-k value", longer names "--name=value", underscores turn into dashes.
func (a Arg) Argv() []string {
	name := strings.ReplaceAll(strings.TrimLeft(a.Name, "-"), "_", "-")
	if name == "" {
		return nil
	}

	long := len(name) > 1
	opt := "-" + name
	if long {
		opt = "--" + name
	}

	if a.Switch != nil {
		if *a.Switch {
			return []string{opt}
		}
		return nil
	}

	out := make([]string, 0, 2*len(a.Values))
	for _, v := range a.Values {
		if long {
			out = append(out, opt+"="+v)
		} else {
			out = append(out, opt, v)
		}
	}
	return out
}

// Argv flattens all entries in declaration order.
func (a ExtraArgs) Argv() []string {
	var out []string
	for _, arg := range a {
		out = append(out, arg.Argv()...)
	}
	return out
}
