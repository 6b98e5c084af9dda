package auth

import (
	"reflect"
	"testing"
)

func TestParseRoles(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "blank", input: "   ", want: []string{}},
		{name: "single", input: "rider", want: []string{"rider"}},
		{name: "multiple with spaces", input: " rider , admin ", want: []string{"rider", "admin"}},
		{name: "dangling commas", input: ",rider,,", want: []string{"rider"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseRoles(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseRoles(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
