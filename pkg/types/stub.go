package types

import (
	"fmt"
	"strings"
)

// StubKind represents the kind of code element a stub describes
type StubKind string

const (
	KindClass     StubKind = "class"
	KindFunction  StubKind = "function"
	KindVariable  StubKind = "variable"
	KindNamespace StubKind = "namespace"
	KindEnum      StubKind = "enum"
	KindTypedef   StubKind = "typedef"
)

// Param describes one function parameter
type Param struct {
	Type    string
	Name    string
	Default string // Optional default value, empty when absent
}

// Stub is an immutable record describing one named code element.
//
// Kind-specific attributes are populated by the matching constructor and are
// zero-valued otherwise: IsStruct for classes; ReturnType and Params for
// functions; VarType, IsConst, and IsStatic for variables.
type Stub struct {
	Kind     StubKind
	Name     string
	Location Location

	// Class attributes
	IsStruct bool

	// Function attributes
	ReturnType string
	Params     []Param

	// Variable attributes
	VarType  string
	IsConst  bool
	IsStatic bool
}

// NewClassStub creates a stub for a class or struct declaration.
func NewClassStub(name string, loc Location, isStruct bool) *Stub {
	return &Stub{
		Kind:     KindClass,
		Name:     name,
		Location: loc,
		IsStruct: isStruct,
	}
}

// NewFunctionStub creates a stub for a function declaration.
func NewFunctionStub(name string, loc Location, returnType string) *Stub {
	if returnType == "" {
		returnType = "void"
	}
	return &Stub{
		Kind:       KindFunction,
		Name:       name,
		Location:   loc,
		ReturnType: returnType,
	}
}

// NewVariableStub creates a stub for a variable declaration.
func NewVariableStub(name string, loc Location, varType string, isConst, isStatic bool) *Stub {
	return &Stub{
		Kind:     KindVariable,
		Name:     name,
		Location: loc,
		VarType:  varType,
		IsConst:  isConst,
		IsStatic: isStatic,
	}
}

// AddParam appends a parameter to a function stub. Intended for use during
// construction, before the stub is handed to an index or builder.
func (s *Stub) AddParam(paramType, name string) {
	s.Params = append(s.Params, Param{Type: paramType, Name: name})
}

// ValidateKind checks if the stub kind is valid
func (s *Stub) ValidateKind() error {
	switch s.Kind {
	case KindClass, KindFunction, KindVariable, KindNamespace, KindEnum, KindTypedef:
		return nil
	default:
		return ErrInvalidKind
	}
}

// Validate performs structural validation of the stub
func (s *Stub) Validate() error {
	if s.Name == "" {
		return ErrMissingName
	}
	if err := s.ValidateKind(); err != nil {
		return err
	}
	if !s.Location.IsValid() {
		return ErrInvalidLocation
	}
	return nil
}

// String returns a one-line human-readable description of the stub
func (s *Stub) String() string {
	switch s.Kind {
	case KindClass:
		keyword := "Class"
		if s.IsStruct {
			keyword = "Struct"
		}
		return fmt.Sprintf("%s %s at %s", keyword, s.Name, s.Location)
	case KindFunction:
		params := make([]string, 0, len(s.Params))
		for _, p := range s.Params {
			params = append(params, p.Type+" "+p.Name)
		}
		return fmt.Sprintf("Function %s %s(%s) at %s",
			s.ReturnType, s.Name, strings.Join(params, ", "), s.Location)
	case KindVariable:
		var b strings.Builder
		b.WriteString("Variable ")
		if s.IsConst {
			b.WriteString("const ")
		}
		if s.IsStatic {
			b.WriteString("static ")
		}
		fmt.Fprintf(&b, "%s %s at %s", s.VarType, s.Name, s.Location)
		return b.String()
	default:
		return fmt.Sprintf("%s %s at %s", s.Kind, s.Name, s.Location)
	}
}
