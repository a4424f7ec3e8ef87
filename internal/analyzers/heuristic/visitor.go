package heuristic

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/scan-io-git/revio/internal/findings"
)

// Rule identifiers of the heuristic detectors.
const (
	RuleSyntaxError    = "HR000"
	RuleBareExcept     = "HR001"
	RuleDynamicExec    = "HR002"
	RuleMutableDefault = "HR003"
)

// Tree-sitter Python node kinds the detectors dispatch on.
const (
	nodeFunctionDefinition    = "function_definition"
	nodeExceptClause          = "except_clause"
	nodeCall                  = "call"
	nodeExecStatement         = "exec_statement"
	nodePrintStatement        = "print_statement"
	nodeIdentifier            = "identifier"
	nodeDefaultParameter      = "default_parameter"
	nodeTypedDefaultParameter = "typed_default_parameter"
	nodeBlock                 = "block"
	nodeComment               = "comment"
)

const maxNearText = 40

var dynamicExecBuiltins = map[string]struct{}{
	"eval": {},
	"exec": {},
}

// mutableLiterals are literal displays; comprehensions have their own node kinds and never match.
var mutableLiterals = map[string]struct{}{
	"list":       {},
	"dictionary": {},
	"set":        {},
}

// visitor walks one parsed file. Findings go to the caller-owned slice.
type visitor struct {
	filePath string
	src      []byte
	out      *[]findings.Finding
}

func (v *visitor) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Type() {
	case nodeExceptClause:
		v.visitExcept(n)
	case nodeCall:
		v.visitCall(n)
	case nodeFunctionDefinition:
		v.visitFunction(n)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		v.walk(n.NamedChild(i))
	}
}

// visitExcept flags handlers without an exception type. Only the body and comments may follow "except".
func (v *visitor) visitExcept(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		switch n.NamedChild(i).Type() {
		case nodeBlock, nodeComment:
		default:
			return
		}
	}
	v.emit(n, findings.SeverityHigh, RuleBareExcept,
		"Bare `except:` can hide unexpected failures.",
		"Catch specific exceptions and log meaningful context.")
}

// visitCall flags eval and exec called by bare name. Attribute calls like obj.eval() are not builtins.
func (v *visitor) visitCall(n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != nodeIdentifier {
		return
	}
	name := fn.Content(v.src)
	if _, ok := dynamicExecBuiltins[name]; !ok {
		return
	}
	v.emit(n, findings.SeverityHigh, RuleDynamicExec,
		fmt.Sprintf("Use of `%s` may introduce security risks.", name),
		"Prefer safer parsing/execution alternatives.")
}

// visitFunction emits one finding per parameter whose default is a mutable literal.
func (v *visitor) visitFunction(n *sitter.Node) {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	name := "<anonymous>"
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = nameNode.Content(v.src)
	}

	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		if t := param.Type(); t != nodeDefaultParameter && t != nodeTypedDefaultParameter {
			continue
		}
		value := param.ChildByFieldName("value")
		if value == nil {
			continue
		}
		if _, ok := mutableLiterals[value.Type()]; !ok {
			continue
		}
		v.emit(n, findings.SeverityMedium, RuleMutableDefault,
			fmt.Sprintf("Mutable default argument in function `%s` can cause shared state bugs.", name),
			"Use `None` as default and instantiate inside the function.")
	}
}

func (v *visitor) emit(n *sitter.Node, severity findings.Severity, rule, message, suggestion string) {
	*v.out = append(*v.out, findings.Finding{
		Tool:       findings.ToolHeuristic,
		FilePath:   v.filePath,
		Line:       int(n.StartPoint().Row) + 1,
		Severity:   severity,
		Message:    message,
		Suggestion: suggestion,
		RuleID:     rule,
	})
}

// python2Statements are accepted by the grammar but rejected by Python 3.
var python2Statements = map[string]string{
	nodePrintStatement: "Python 2 print statement",
	nodeExecStatement:  "Python 2 exec statement",
}

// firstSyntaxError returns the first ERROR, MISSING or Python 2 statement node in document order.
func firstSyntaxError(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	if _, ok := python2Statements[n.Type()]; ok {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstSyntaxError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// syntaxReason describes a node returned by firstSyntaxError with its 1-based column.
func syntaxReason(n *sitter.Node, src []byte) string {
	col := int(n.StartPoint().Column) + 1
	if reason, ok := python2Statements[n.Type()]; ok {
		return fmt.Sprintf("%s (column %d)", reason, col)
	}
	if n.IsMissing() {
		return fmt.Sprintf("missing %q (column %d)", n.Type(), col)
	}

	near := strings.TrimSpace(n.Content(src))
	if i := strings.IndexByte(near, '\n'); i >= 0 {
		near = strings.TrimSpace(near[:i])
	}
	if len(near) > maxNearText {
		near = near[:maxNearText] + "..."
	}
	if near == "" {
		return fmt.Sprintf("invalid syntax (column %d)", col)
	}
	return fmt.Sprintf("invalid syntax near %q (column %d)", near, col)
}
