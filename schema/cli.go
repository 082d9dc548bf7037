package schema

import (
	"github.com/urfave/cli/v2"
)

// OptionType selects the urfave/cli flag type backing a CLI binding.
type OptionType int

const (
	// OptionString binds the field to a plain string flag.
	OptionString OptionType = iota

	// OptionInt binds the field to an integer flag.
	OptionInt
)

// CLIOption describes the command-line binding of a field: flag names,
// value type and arity. Required-ness mirrors the owning FieldSpec; the
// descriptor is handed to urfave/cli for tokenization, this package
// never parses argv itself.
type CLIOption struct {
	Flag       string
	Aliases    []string
	Usage      string
	Type       OptionType
	Repeatable bool
}

// CLIFlags derives the CLI option set from the schema's field specs.
// The resulting flags accept exactly the parameters the JSON surface
// does, under the bindings each spec declares.
func (s *Schema) CLIFlags() []cli.Flag {
	var flags []cli.Flag
	for _, spec := range s.specs {
		opt := spec.CLI
		if opt == nil || spec.Mode == OutputOnly {
			continue
		}

		switch {
		case opt.Repeatable:
			flags = append(flags, &cli.StringSliceFlag{
				Name:     opt.Flag,
				Aliases:  opt.Aliases,
				Usage:    opt.Usage,
				Required: spec.Required,
			})
		case opt.Type == OptionInt:
			flags = append(flags, &cli.IntFlag{
				Name:     opt.Flag,
				Aliases:  opt.Aliases,
				Usage:    opt.Usage,
				Required: spec.Required,
			})
		default:
			flags = append(flags, &cli.StringFlag{
				Name:     opt.Flag,
				Aliases:  opt.Aliases,
				Usage:    opt.Usage,
				Required: spec.Required,
			})
		}
	}
	return flags
}

// RawFromCLI assembles parsed CLI option values into the same raw input
// map shape the JSON surface produces, keyed by canonical field names.
// The result feeds the identical Load path, so both surfaces enforce
// exactly the same validation.
func (s *Schema) RawFromCLI(c *cli.Context) map[string]any {
	raw := make(map[string]any)
	for _, spec := range s.specs {
		opt := spec.CLI
		if opt == nil || spec.Mode == OutputOnly {
			continue
		}
		if !c.IsSet(opt.Flag) {
			continue
		}

		switch {
		case opt.Repeatable:
			values := c.StringSlice(opt.Flag)
			items := make([]any, len(values))
			for i, v := range values {
				items[i] = v
			}
			raw[spec.Name] = items
		case opt.Type == OptionInt:
			raw[spec.Name] = c.Int(opt.Flag)
		default:
			raw[spec.Name] = c.String(opt.Flag)
		}
	}
	return raw
}
