package heuristic

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/revio/internal/findings"
)

func analyzeSource(t *testing.T, src string) []findings.Finding {
	t.Helper()
	got, err := New(hclog.NewNullLogger()).AnalyzeSource(context.Background(), "sample.py", []byte(src))
	require.NoError(t, err)
	return got
}

func ruleIDs(fs []findings.Finding) []string {
	ids := make([]string, 0, len(fs))
	for _, f := range fs {
		ids = append(ids, f.RuleID)
	}
	return ids
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestThreeRuleSnippet(t *testing.T) {
	got := analyzeSource(t, "def f(a=[]):\n  try:\n    eval('1')\n  except:\n    return a")

	require.Len(t, got, 3)
	assert.ElementsMatch(t, []string{RuleBareExcept, RuleDynamicExec, RuleMutableDefault}, ruleIDs(got))

	for _, f := range got {
		assert.Equal(t, findings.ToolHeuristic, f.Tool)
		assert.Equal(t, "sample.py", f.FilePath)
		switch f.RuleID {
		case RuleMutableDefault:
			assert.Equal(t, 1, f.Line)
			assert.Equal(t, findings.SeverityMedium, f.Severity)
			assert.Equal(t, "Mutable default argument in function `f` can cause shared state bugs.", f.Message)
		case RuleDynamicExec:
			assert.Equal(t, 3, f.Line)
			assert.Equal(t, findings.SeverityHigh, f.Severity)
			assert.Equal(t, "Use of `eval` may introduce security risks.", f.Message)
		case RuleBareExcept:
			assert.Equal(t, 4, f.Line)
			assert.Equal(t, findings.SeverityHigh, f.Severity)
		}
	}
}

func TestBareExceptOnlyForUntypedHandlers(t *testing.T) {
	src := `
try:
    pass
except ValueError:
    pass
except (KeyError, TypeError) as exc:
    pass
except:  # swallow everything
    pass

try:
    pass
except:
    pass
`
	got := analyzeSource(t, src)
	assert.Equal(t, []string{RuleBareExcept, RuleBareExcept}, ruleIDs(got))
	assert.Equal(t, 8, got[0].Line)
	assert.Equal(t, 13, got[1].Line)
}

func TestDynamicExecOnlyForBareNames(t *testing.T) {
	src := `
import builtins

obj.eval("1")
builtins.exec("x = 1")
model.eval()
evaluate("1")
eval("2")
exec(compile("x", "f", "exec"))
`
	got := analyzeSource(t, src)
	require.Len(t, got, 2)
	assert.Equal(t, "Use of `eval` may introduce security risks.", got[0].Message)
	assert.Equal(t, 8, got[0].Line)
	assert.Equal(t, "Use of `exec` may introduce security risks.", got[1].Message)
	assert.Equal(t, 9, got[1].Line)
}

func TestMutableDefaultPerParameter(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{name: "list dict set", src: "def f(a=[], b={}, c={1}, d=None):\n    pass\n", want: 3},
		{name: "keyword only", src: "def f(a, *, b=[]):\n    pass\n", want: 1},
		{name: "typed default", src: "def f(a: list = []):\n    pass\n", want: 1},
		{name: "async def", src: "async def f(a={}):\n    pass\n", want: 1},
		{name: "method", src: "class C:\n    def m(self, cache={}):\n        pass\n", want: 1},
		{name: "comprehension", src: "def f(a=[i for i in range(3)], b={k: 1 for k in 'ab'}):\n    pass\n", want: 0},
		{name: "immutable defaults", src: "def f(a=(), b='x', c=None, d=frozenset()):\n    pass\n", want: 0},
		{name: "no defaults", src: "def f(a, b):\n    pass\n", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzeSource(t, tt.src)
			assert.Len(t, got, tt.want)
			for _, f := range got {
				assert.Equal(t, RuleMutableDefault, f.RuleID)
			}
		})
	}
}

func TestMutableDefaultCoexistsWithOtherPatterns(t *testing.T) {
	src := `
def handler(payload={}):
    try:
        exec(payload["code"])
    except:
        pass
    eval(payload["expr"])
`
	got := analyzeSource(t, src)

	count := 0
	for _, f := range got {
		if f.RuleID == RuleMutableDefault {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, got, 4)
}

func TestSyntaxErrorStopsFileScan(t *testing.T) {
	got := analyzeSource(t, "def broken(:\n    eval('x')\n")

	require.Len(t, got, 1)
	assert.Equal(t, RuleSyntaxError, got[0].RuleID)
	assert.Equal(t, findings.SeverityHigh, got[0].Severity)
	assert.Contains(t, got[0].Message, "Syntax error: ")
	assert.Equal(t, "Fix syntax before running deeper analysis.", got[0].Suggestion)
	assert.GreaterOrEqual(t, got[0].Line, 1)
}

func TestPython2StatementsAreSyntaxErrors(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		wantLine    int
		wantMessage string
	}{
		{
			name:        "print statement",
			src:         "print \"hello\"\n",
			wantLine:    1,
			wantMessage: "Syntax error: Python 2 print statement (column 1)",
		},
		{
			name:        "exec statement",
			src:         "exec \"x = 1\"\n",
			wantLine:    1,
			wantMessage: "Syntax error: Python 2 exec statement (column 1)",
		},
		{
			name:        "stops the rest of the file",
			src:         "def f(a=[]):\n    print a\n    eval(a)\n",
			wantLine:    2,
			wantMessage: "Syntax error: Python 2 print statement (column 5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzeSource(t, tt.src)
			require.Len(t, got, 1)
			assert.Equal(t, RuleSyntaxError, got[0].RuleID)
			assert.Equal(t, tt.wantLine, got[0].Line)
			assert.Equal(t, tt.wantMessage, got[0].Message)
		})
	}
}

func TestPython3PrintAndExecCalls(t *testing.T) {
	got := analyzeSource(t, "print(\"hello\")\nexec(\"x = 1\")\n")
	require.Len(t, got, 1)
	assert.Equal(t, RuleDynamicExec, got[0].RuleID)
	assert.Equal(t, 2, got[0].Line)
}

func TestSyntaxErrorMessageLocatesProblem(t *testing.T) {
	got := analyzeSource(t, "x = 1\ny = (2 +\n")
	require.Len(t, got, 1)
	assert.Equal(t, RuleSyntaxError, got[0].RuleID)
	assert.Regexp(t, `^Syntax error: (invalid syntax( near ".+")?|missing ".+") \(column \d+\)$`, got[0].Message)
}

func TestInvalidUTF8(t *testing.T) {
	got, err := New(hclog.NewNullLogger()).AnalyzeSource(context.Background(), "latin1.py", []byte{'x', '=', '"', 0xff, '"'})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, RuleSyntaxError, got[0].RuleID)
	assert.Zero(t, got[0].Line)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	src := "def f(a=[], b={}):\n    try:\n        eval('1')\n    except:\n        exec('2')\n"
	first := analyzeSource(t, src)
	second := analyzeSource(t, src)
	assert.Equal(t, first, second)
}

func TestAnalyzeDirectoryContinuesAfterSyntaxError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a_broken.py"), "def broken(:\n")
	writeFile(t, filepath.Join(root, "b_ok.py"), "eval('1')\n")
	writeFile(t, filepath.Join(root, ".venv", "lib", "site.py"), "eval('skipped')\n")
	writeFile(t, filepath.Join(root, "pkg", "__pycache__", "cached.py"), "eval('skipped')\n")
	writeFile(t, filepath.Join(root, "README.md"), "eval('not python')\n")

	got, err := New(hclog.NewNullLogger()).Analyze(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, RuleSyntaxError, got[0].RuleID)
	assert.Equal(t, filepath.Join(root, "a_broken.py"), got[0].FilePath)
	assert.Equal(t, RuleDynamicExec, got[1].RuleID)
	assert.Equal(t, filepath.Join(root, "b_ok.py"), got[1].FilePath)
}

func TestPythonFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.py"), "")
	writeFile(t, filepath.Join(root, "a.py"), "")
	writeFile(t, filepath.Join(root, "sub", "m.py"), "")
	writeFile(t, filepath.Join(root, "notes.txt"), "")
	writeFile(t, filepath.Join(root, ".venv", "x.py"), "")

	files, err := pythonFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.py"),
		filepath.Join(root, "sub", "m.py"),
		filepath.Join(root, "z.py"),
	}, files)

	single, err := pythonFiles(filepath.Join(root, "a.py"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.py")}, single)

	none, err := pythonFiles(filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	assert.Empty(t, none)

	missing, err := pythonFiles(filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}
