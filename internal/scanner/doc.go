// Package scanner extracts declaration stubs from C++ source text using
// regular-expression heuristics.
//
// The scanner recognizes three declaration categories: class/struct heads,
// function signatures, and variable declarations. It does not parse the
// language; it pattern-matches the source, which makes it fast and tolerant
// of incomplete code at the cost of precision. Preprocessor output, template
// metaprogramming, and heavily macro-based code will confuse it.
//
//	s := scanner.New()
//	result, err := s.ScanFile("src/widget.cpp")
//
// Each extracted stub carries its file, line, and kind-specific attributes
// (struct vs class, return type and parameters, const/static qualifiers).
// Categories can be disabled individually, e.g. s.SetScanVariables(false).
package scanner
