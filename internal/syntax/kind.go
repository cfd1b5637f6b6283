package syntax

// Kind discriminates syntax nodes.
type Kind uint8

const (
	Module Kind = iota
	Block
	Statement
	TransformationCall
	ArgumentList
	Argument
	Vector
	Paren
	Modifier
	Comment
	Whitespace
	Unknown
	Token
)

var kindNames = [...]string{
	Module:             "Module",
	Block:              "Block",
	Statement:          "Statement",
	TransformationCall: "TransformationCall",
	ArgumentList:       "ArgumentList",
	Argument:           "Argument",
	Vector:             "Vector",
	Paren:              "Paren",
	Modifier:           "Modifier",
	Comment:            "Comment",
	Whitespace:         "Whitespace",
	Unknown:            "Unknown",
	Token:              "Token",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// StmtKind refines Statement nodes.
type StmtKind uint8

const (
	StmtNone StmtKind = iota
	// Instantiation: [modifiers] name(args) followed by ';', a block or a chained statement.
	Instantiation
	// Assignment: name = expr;
	Assignment
	// ModuleDef: module name(params) body
	ModuleDef
	// FunctionDef: function name(params) = expr;
	FunctionDef
	// If: if (cond) body [else body]
	If
	// Include: include <path> / use <path>
	Include
	// StmtBlock: { items }
	StmtBlock
	// Empty: a lone ';'
	Empty
)

var stmtNames = [...]string{
	StmtNone:      "",
	Instantiation: "Instantiation",
	Assignment:    "Assignment",
	ModuleDef:     "ModuleDef",
	FunctionDef:   "FunctionDef",
	If:            "If",
	Include:       "Include",
	StmtBlock:     "Block",
	Empty:         "Empty",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtNames) {
		return stmtNames[k]
	}
	return "StmtKind(?)"
}
