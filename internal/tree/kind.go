package tree

// NodeKind identifies the kind of element a tree node represents. It is a
// superset of the stub kinds: structural, statement, expression, and type
// kinds exist so richer front ends can populate full syntax shapes.
type NodeKind string

const (
	// File structure
	KindFile      NodeKind = "file"
	KindNamespace NodeKind = "namespace"
	KindClass     NodeKind = "class"
	KindStruct    NodeKind = "struct"
	KindFunction  NodeKind = "function"
	KindVariable  NodeKind = "variable"
	KindEnum      NodeKind = "enum"
	KindTypedef   NodeKind = "typedef"

	// Statements
	KindCompoundStatement    NodeKind = "compound_statement"
	KindIfStatement          NodeKind = "if_statement"
	KindForStatement         NodeKind = "for_statement"
	KindWhileStatement       NodeKind = "while_statement"
	KindReturnStatement      NodeKind = "return_statement"
	KindExpressionStatement  NodeKind = "expression_statement"
	KindDeclarationStatement NodeKind = "declaration_statement"

	// Expressions
	KindBinaryExpression     NodeKind = "binary_expression"
	KindUnaryExpression      NodeKind = "unary_expression"
	KindCallExpression       NodeKind = "call_expression"
	KindMemberExpression     NodeKind = "member_expression"
	KindLiteralExpression    NodeKind = "literal_expression"
	KindIdentifierExpression NodeKind = "identifier_expression"

	// Types
	KindBuiltinType   NodeKind = "builtin_type"
	KindQualifiedType NodeKind = "qualified_type"
	KindPointerType   NodeKind = "pointer_type"
	KindReferenceType NodeKind = "reference_type"
	KindArrayType     NodeKind = "array_type"

	// Other
	KindComment      NodeKind = "comment"
	KindPreprocessor NodeKind = "preprocessor_directive"
	KindUnknown      NodeKind = "unknown"
)
