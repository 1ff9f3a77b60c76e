package latex

import (
	"fmt"
	"strconv"
)

// CommandKind names a Quantikz command.
type CommandKind int

const (
	CmdLstick CommandKind = iota // \lstick{\ket{q_{n}}}: qubit label left of the wire
	CmdGate                      // \gate{name}
	CmdPhase                     // \phase{symbol}
	CmdSuper                     // ^{\script}: superscript on a gate name
	CmdQw                        // \qw: plain wire, nothing happens here
	CmdNr                        // \\: end of row
	CmdCtrl                      // \ctrl{offset}: control dot linked offset rows away
	CmdTarg                      // \targ{}: controlled-not target
)

// Command is one Quantikz primitive and its argument, if any.
type Command struct {
	Kind CommandKind
	Arg  string
}

func Lstick(qubit uint64) Command { return Command{Kind: CmdLstick, Arg: strconv.FormatUint(qubit, 10)} }
func GateCmd(name string) Command { return Command{Kind: CmdGate, Arg: name} }
func Phase(symbol string) Command { return Command{Kind: CmdPhase, Arg: symbol} }
func Super(script string) Command { return Command{Kind: CmdSuper, Arg: script} }
func Qw() Command { return Command{Kind: CmdQw} }
func Nr() Command { return Command{Kind: CmdNr} }
func Ctrl(offset int) Command { return Command{Kind: CmdCtrl, Arg: strconv.Itoa(offset)} }
func Targ() Command { return Command{Kind: CmdTarg} }

// String renders the command as LaTeX.
func (c Command) String() string {
	switch c.Kind {
	case CmdLstick:
		return `\lstick{\ket{q_{` + c.Arg + `}}}`
	case CmdGate:
		return `\gate{` + c.Arg + `}`
	case CmdPhase:
		return `\phase{` + c.Arg + `}`
	case CmdSuper:
		return `^{\` + c.Arg + `}`
	case CmdQw:
		return `\qw`
	case CmdNr:
		return `\\`
	case CmdCtrl:
		return `\ctrl{` + c.Arg + `}`
	case CmdTarg:
		return `\targ{}`
	}
	return fmt.Sprintf("%%!CommandKind(%d)", int(c.Kind))
}
