package tool

import (
	"github.com/spachava753/sprout/internal/param"
	"github.com/spachava753/sprout/internal/task"
)

// NewMXMLC returns the definition of the Flex SDK ActionScript compiler.
func NewMXMLC(opts ...task.Option) *Definition {
	d := task.NewDefinition("mxmlc", opts...)
	mustAdd(d, "debug", param.TypeBoolean, task.HiddenValue(),
		task.Describe("Generate a debug SWF file."))
	mustAdd(d, "source_path", param.TypePaths, task.Alias("sp"),
		task.Describe("Directories searched for ActionScript and MXML sources."))
	mustAdd(d, "output", param.TypePath, task.Alias("o"),
		task.Describe("Path of the compiled SWF."))
	mustAdd(d, "input", param.TypeFile, task.HiddenName(),
		task.Describe("Main application source file."))

	return &Definition{
		Definition: d,
		Executable: "mxmlc",
		PkgName:    "sprout-flex3sdk",
		PkgVersion: ">= 1.0.pre",
	}
}

func mustAdd(d *task.Definition, name, typ string, opts ...task.ParamOption) {
	if err := d.AddParam(name, typ, opts...); err != nil {
		panic(err)
	}
}
