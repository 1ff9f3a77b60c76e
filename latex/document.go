package latex

const (
	documentHeader = `\documentclass[convert={density=300,outext=.png}]{standalone}
\usepackage[margin=1in]{geometry}
\usepackage{tikz}
\usetikzlibrary{quantikz}
\begin{document}
\begin{tikzcd}`

	documentFooter = `\end{tikzcd}
\end{document}`
)

// Document is a standalone LaTeX file wrapping a circuit body.
type Document struct {
	Header string
	Body   string
	Footer string
}

// NewDocument wraps body in the fixed Quantikz header and footer.
func NewDocument(body string) Document {
	return Document{Header: documentHeader, Body: body, Footer: documentFooter}
}

// String returns the full LaTeX source. The body starts on its own line.
func (d Document) String() string {
	return d.Header + "\n" + d.Body + d.Footer
}
