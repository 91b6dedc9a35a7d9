package task

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spachava753/sprout/internal/param"
	"github.com/spachava753/sprout/internal/util"
)

// ToShell serializes every set parameter into a single command line fragment,
// in declaration order. Parameters that are empty or still hold their
// declared default are skipped. Aliases never produce output of their own.
func (i *Instance) ToShell() string {
	return strings.Join(i.Args(), " ")
}

// Args returns the tokens ToShell joins.
func (i *Instance) Args() []string {
	var args []string
	for pos, s := range i.schemas {
		v := i.values[pos]
		if v.IsEmpty() {
			continue
		}
		if s.HasDefault() && reflect.DeepEqual(v.Get(), s.Default) {
			continue
		}
		args = append(args, tokens(s, v)...)
	}
	return args
}

func tokens(s Schema, v param.Value) []string {
	flag := util.Flag(s.Name)

	switch tv := v.(type) {
	case *param.Boolean:
		if s.HiddenValue {
			return []string{flag}
		}
		return []string{flag + "=" + tv.ShellValue()}
	case param.Collection:
		items := tv.ItemShellValues()
		out := make([]string, len(items))
		for n, item := range items {
			if s.HiddenName {
				out[n] = item
			} else {
				out[n] = flag + "+=" + item
			}
		}
		return out
	case param.Scalar:
		switch {
		case s.HiddenName:
			return []string{tv.ShellValue()}
		case s.HiddenValue:
			return []string{flag}
		}
		return []string{flag + "=" + tv.ShellValue()}
	}
	return []string{flag + "=" + util.EscapeSpaces(fmt.Sprint(v.Get()))}
}
