package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.0.0", 0},
		{"1.0.pre", "1.0", -1},
		{"1.0.pre", "0.9", 1},
		{"1.10", "1.9", 1},
		{"1.0.a", "1.0.b", -1},
		{"2", "1.99.99", 1},
		{"1.0rc1", "1.0", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			a, err := ParseVersion(tt.a)
			require.NoError(t, err)
			b, err := ParseVersion(tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Compare(b))
		})
	}
}

func TestParseVersionInvalid(t *testing.T) {
	for _, s := range []string{"", "1..0", "1.0-beta", " . "} {
		_, err := ParseVersion(s)
		assert.Error(t, err, "ParseVersion(%q)", s)
	}
}

func TestMatchVersion(t *testing.T) {
	tests := []struct {
		req, version string
		want         bool
	}{
		{">= 1.0.pre", "1.0.pre", true},
		{">= 1.0.pre", "1.0", true},
		{">= 1.0.pre", "0.9.9", false},
		{"> 1.0", "1.0", false},
		{"< 2, != 1.5", "1.5", false},
		{"< 2, != 1.5", "1.6", true},
		{"< 2, != 1.5", "2.0", false},
		{"~> 1.1", "1.9", true},
		{"~> 1.1", "2.0", false},
		{"~> 1.1.2", "1.1.9", true},
		{"~> 1.1.2", "1.2", false},
		{"<= 1.0", "1.0.pre", true},
		{"1.0", "1.0.0", true},
		{"= 1.0", "1.1", false},
		{"latest", "latest", true},
		{"latest", "1.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.req+"_"+tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchVersion(tt.req, tt.version))
		})
	}
}

func TestSelectorMatches(t *testing.T) {
	d := Descriptor{Name: "mxmlc", PkgName: "sprout-flex3sdk", PkgVersion: "1.0.pre", Platform: "linux"}
	tests := []struct {
		name string
		sel  Selector
		want bool
	}{
		{"empty", Selector{}, true},
		{"package", Selector{PkgName: "sprout-flex3sdk"}, true},
		{"other package", Selector{PkgName: "flex4"}, false},
		{"platform case insensitive", Selector{Platform: "Linux"}, true},
		{"other platform", Selector{Platform: "windows"}, false},
		{"version requirement", Selector{PkgVersion: ">= 1.0.pre"}, true},
		{"version too new", Selector{PkgVersion: ">= 2"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.Matches(d))
		})
	}

	assert.True(t, Selector{PkgName: "x", PkgVersion: "9", Platform: "plan9"}.Matches(Descriptor{Name: "any"}),
		"unset descriptor fields should match any selector")
}
