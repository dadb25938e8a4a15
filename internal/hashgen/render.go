package hashgen

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"
)

//go:embed cases.cpp.tmpl
var casesSource string

var casesTemplate = template.Must(template.New("cases.cpp").Parse(casesSource))

// bodySeparator continues a body on the next line at the switch-case indent.
const bodySeparator = "\n            "

type casesData struct {
	SwitchConstexpr string
	SwitchPrehash   string
	ConstConstexpr  string
	ConstPrehash    string
}

// Render writes the C++ translation unit for cases. The output selects one
// of four bodies through the ONLY_CONSTANTS and CONSTEXPR_HASH macros.
func Render(w io.Writer, cases []Case) error {
	data := casesData{
		SwitchConstexpr: joinCases(cases, func(c Case) string {
			return fmt.Sprintf("case murmur::static_hash_x86_32(%q, 0): return %d;", c.Text, c.Index)
		}),
		SwitchPrehash: joinCases(cases, func(c Case) string {
			return fmt.Sprintf("case %s: return %d;", c.HashLiteral(), c.Index)
		}),
		ConstConstexpr: joinCases(cases, func(c Case) string {
			return fmt.Sprintf("constexpr uint32_t const_%d = murmur::static_hash_x86_32(%q, 0);", c.Index, c.Text)
		}),
		ConstPrehash: joinCases(cases, func(c Case) string {
			return fmt.Sprintf("constexpr uint32_t const_%d = %s;", c.Index, c.HashLiteral())
		}),
	}
	return casesTemplate.Execute(w, data)
}

func joinCases(cases []Case, line func(Case) string) string {
	lines := make([]string, len(cases))
	for i, c := range cases {
		lines[i] = line(c)
	}
	return strings.Join(lines, bodySeparator)
}
