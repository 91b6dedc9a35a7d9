// Package buildtask exposes configured tools as goyek tasks.
package buildtask

import (
	"github.com/goyek/goyek/v2"

	"github.com/spachava753/sprout/internal/tool"
)

// ConfigureFunc sets the parameters of a tool before it runs.
type ConfigureFunc func(t *tool.Tool) error

// Define registers a task called name on flow that configures a new tool from
// def and executes it. Tool output goes to the task output.
func Define(flow *goyek.Flow, name string, def *tool.Definition, loader tool.ExecutableLoader, configure ConfigureFunc, deps ...*goyek.DefinedTask) *goyek.DefinedTask {
	return flow.Define(goyek.Task{
		Name:  name,
		Usage: "Run " + def.Name(),
		Deps:  deps,
		Action: func(a *goyek.A) {
			t := def.New(loader, tool.WithOutput(a.Output(), a.Output()))
			if configure != nil {
				if err := configure(t); err != nil {
					a.Fatalf("configuring %s: %v", def.Name(), err)
				}
			}

			a.Logf("%s %s", t.Executable, t.ToShell())
			if err := t.Execute(a.Context()); err != nil {
				a.Fatal(err)
			}
		},
	})
}
