package latex

// greek maps the recognised parameter names to their Unicode glyphs. The
// LaTeX macro for each is the name itself behind a backslash.
var greek = map[string]string{
	"alpha": "α",
	"beta":  "β",
	"gamma": "γ",
	"phi":   "φ",
	"pi":    "π",
}

// Symbol is a gate parameter ready for display.
type Symbol struct {
	Text  string
	Known bool // Text names one of the recognised constants
}

// ResolveSymbol maps alpha, beta, gamma, phi and pi to their symbolic form.
// Any other text is kept as a literal.
func ResolveSymbol(text string) Symbol {
	_, ok := greek[text]
	return Symbol{Text: text, Known: ok}
}

// LiteralSymbol keeps text verbatim, even when it names a known constant.
func LiteralSymbol(text string) Symbol {
	return Symbol{Text: text}
}

// String returns the LaTeX form: `\pi` for known constants, `\text{...}` otherwise.
func (s Symbol) String() string {
	if s.Known {
		return `\` + s.Text
	}
	return `\text{` + s.Text + `}`
}

// Plain returns the symbol for plain-text output.
func (s Symbol) Plain() string {
	if s.Known {
		return greek[s.Text]
	}
	return s.Text
}
