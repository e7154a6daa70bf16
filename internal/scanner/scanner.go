package scanner

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dshills/stubindex-mcp/pkg/types"
)

// Declaration patterns. These are deliberately shallow: a heuristic pass over
// raw source text, not a grammar. Bodies, templates, and macros are ignored.
var (
	classPattern    = regexp.MustCompile(`(class|struct)\s+(\w+)[^{]*\{`)
	functionPattern = regexp.MustCompile(`(\w+)\s+(\w+)\s*\(([^)]*)\)\s*(?:const\s*)?(?:override\s*)?(?:final\s*)?\s*[;{]`)
	variablePattern = regexp.MustCompile(`(const\s+static\s+|static\s+const\s+|const\s+|static\s+)?(\w+)\s+(\w+)\s*[=;]`)
)

// controlKeywords are identifiers that the variable pattern can mistake for a
// type name.
var controlKeywords = map[string]bool{
	"return": true,
	"if":     true,
	"else":   true,
	"for":    true,
	"while":  true,
}

// Scanner extracts declaration stubs from C++ source text. Each declaration
// category can be toggled off independently; all are enabled by default.
type Scanner struct {
	scanClasses   bool
	scanFunctions bool
	scanVariables bool
}

// New creates a Scanner with every category enabled.
func New() *Scanner {
	return &Scanner{
		scanClasses:   true,
		scanFunctions: true,
		scanVariables: true,
	}
}

// SetScanClasses toggles class and struct extraction.
func (s *Scanner) SetScanClasses(enable bool) { s.scanClasses = enable }

// SetScanFunctions toggles function extraction.
func (s *Scanner) SetScanFunctions(enable bool) { s.scanFunctions = enable }

// SetScanVariables toggles variable extraction.
func (s *Scanner) SetScanVariables(enable bool) { s.scanVariables = enable }

// ScanFile reads and scans a source file from disk.
func (s *Scanner) ScanFile(filePath string) (*types.ScanResult, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return s.ScanSource(filePath, string(content)), nil
}

// ScanSource scans a source string. filePath is recorded in every stub's
// location; use a placeholder such as "<memory>" for ad hoc snippets.
func (s *Scanner) ScanSource(filePath, code string) *types.ScanResult {
	result := &types.ScanResult{}

	if s.scanClasses {
		s.extractClasses(code, filePath, result)
	}
	if s.scanFunctions {
		s.extractFunctions(code, filePath, result)
	}
	if s.scanVariables {
		s.extractVariables(code, filePath, result)
	}

	return result
}

func (s *Scanner) extractClasses(code, filePath string, result *types.ScanResult) {
	for _, m := range classPattern.FindAllStringSubmatchIndex(code, -1) {
		keyword := code[m[2]:m[3]]
		name := code[m[4]:m[5]]

		loc := types.NewLocation(filePath, lineAt(code, m[0]), 1)
		result.AddStub(types.NewClassStub(name, loc, keyword == "struct"))
	}
}

func (s *Scanner) extractFunctions(code, filePath string, result *types.ScanResult) {
	for _, m := range functionPattern.FindAllStringSubmatchIndex(code, -1) {
		matchText := code[m[0]:m[1]]

		// Class heads match the function shape too.
		if strings.HasPrefix(matchText, "class") || strings.HasPrefix(matchText, "struct") {
			continue
		}

		returnType := code[m[2]:m[3]]
		name := code[m[4]:m[5]]
		params := code[m[6]:m[7]]

		// Control-flow statements like "return foo(x);" look like calls with
		// a return type.
		if returnType == "return" || name == "return" || returnType == "if" || name == "if" {
			continue
		}

		loc := types.NewLocation(filePath, lineAt(code, m[0]), 1)
		stub := types.NewFunctionStub(name, loc, returnType)
		addParams(stub, params)
		result.AddStub(stub)
	}
}

// addParams splits a raw parameter list on commas and derives (type, name)
// pairs from the last whitespace in each entry. A single-token entry is
// treated as a type with the placeholder name "param".
func addParams(stub *types.Stub, params string) {
	if strings.TrimSpace(params) == "" {
		return
	}
	for _, raw := range strings.Split(params, ",") {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		if i := strings.LastIndexAny(p, " \t"); i >= 0 {
			stub.AddParam(strings.TrimSpace(p[:i]), p[i+1:])
		} else {
			stub.AddParam(p, "param")
		}
	}
}

func (s *Scanner) extractVariables(code, filePath string, result *types.ScanResult) {
	for _, m := range variablePattern.FindAllStringSubmatchIndex(code, -1) {
		matchText := code[m[0]:m[1]]

		// Reject anything that looks like a call or a definition body.
		if strings.ContainsAny(matchText, "({") {
			continue
		}

		varType := code[m[4]:m[5]]
		name := code[m[6]:m[7]]

		if controlKeywords[varType] {
			continue
		}

		isConst := strings.Contains(matchText, "const")
		isStatic := strings.Contains(matchText, "static")

		loc := types.NewLocation(filePath, lineAt(code, m[0]), 1)
		result.AddStub(types.NewVariableStub(name, loc, varType, isConst, isStatic))
	}
}

// lineAt returns the 1-based line number of the byte offset.
func lineAt(code string, offset int) int {
	if offset >= len(code) {
		return 1
	}
	return 1 + strings.Count(code[:offset], "\n")
}
