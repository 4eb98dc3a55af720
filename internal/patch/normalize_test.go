package patch

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts Options
		want string
	}{
		{
			name: "defaults strip leading and trailing",
			text: "  foo()  ",
			opts: DefaultOptions(),
			want: "foo()",
		},
		{
			name: "defaults preserve case",
			text: "Foo()",
			opts: DefaultOptions(),
			want: "Foo()",
		},
		{
			name: "defaults preserve blank lines",
			text: "a\n\nb",
			opts: DefaultOptions(),
			want: "a\n\nb",
		},
		{
			name: "ignore case lowers lines",
			text: "Foo()",
			opts: Options{IgnoreCase: true},
			want: "foo()",
		},
		{
			name: "drop blank lines",
			text: "a\n   \nb",
			opts: Options{StripTrailing: true, DropBlankLines: true},
			want: "a\nb",
		},
		{
			name: "indent normalization expands tabs",
			text: "\tfoo()",
			opts: Options{NormalizeIndent: true},
			want: "    foo()",
		},
		{
			name: "indent normalization matches spaces to tabs",
			text: "\t\tx",
			opts: Options{NormalizeIndent: true},
			want: "        x",
		},
		{
			name: "zero options leave text alone",
			text: "  Foo \t",
			opts: Options{},
			want: "  Foo \t",
		},
		{
			name: "multiline with defaults",
			text: "  if x:\n      return 1",
			opts: DefaultOptions(),
			want: "if x:\nreturn 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.text, tt.opts); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	texts := []string{
		"",
		"  foo()  ",
		"\tif x {\n\t\ty()\n\t}",
		"A\n\n  B  \n\tC",
		"mixed \t trailing\t ",
	}
	optSets := []Options{
		{},
		DefaultOptions(),
		{StripLeading: true},
		{StripTrailing: true},
		{NormalizeIndent: true},
		{DropBlankLines: true, StripTrailing: true},
		{IgnoreCase: true, StripLeading: true, StripTrailing: true, NormalizeIndent: true, DropBlankLines: true},
	}

	for _, text := range texts {
		for _, opts := range optSets {
			once := Normalize(text, opts)
			twice := Normalize(once, opts)
			if once != twice {
				t.Errorf("Normalize not idempotent for %q with %+v: %q != %q", text, opts, once, twice)
			}
		}
	}
}
