package when

import (
	"reflect"
	"testing"
)

func TestClauses(t *testing.T) {
	tests := []struct {
		cond Condition
		want []string
	}{
		{nil, nil},
		{Has("a"), []string{"a"}},
		{MustDeserialize("b && !a"), []string{"!a", "b"}},
		{MustDeserialize("a || b"), []string{"a || b"}},
		{MustDeserialize("lang == 'a && b'"), []string{"lang == 'a && b'"}},
		{MustDeserialize("focus && lang != 'x && y'"), []string{"focus", "lang != 'x && y'"}},
	}

	for _, tt := range tests {
		if got := Clauses(tt.cond); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Clauses() = %v, want %v", got, tt.want)
		}
	}
}

func TestEntirelyIncluded(t *testing.T) {
	tests := []struct {
		name string
		in   string
		by   string
		want bool
	}{
		{"both absent", "", "", true},
		{"absent in anything", "", "a", true},
		{"present in absent", "a", "", false},
		{"same", "a", "a", true},
		{"subset", "a", "a && b", true},
		{"superset", "a && b", "a", false},
		{"reordered", "b && a", "a && b", true},
		{"disjoint", "a", "b", false},
		{"negation differs", "a", "!a", false},
		{"comparison", "lang == go", "lang == go && focus", true},
		{"or same", "a || b", "b || a", true},
		{"or in conjunct", "a || b", "a", false},
		{"conjunct in or", "a", "a || b", false},
		{"or differs", "a || b", "a || b && c", false},
		{"quoted and", "lang == 'a && b'", "lang == 'a && b' && focus", true},
		{"quoted and not split", "lang == a", "lang == 'a && b'", false},
		{"quoted and differs", "lang == 'a && b'", "lang == 'a && c'", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := Deserialize(tt.in)
			by, _ := Deserialize(tt.by)
			if got := EntirelyIncluded(in, by); got != tt.want {
				t.Errorf("EntirelyIncluded(%q, %q) = %v, want %v", tt.in, tt.by, got, tt.want)
			}
		})
	}
}
