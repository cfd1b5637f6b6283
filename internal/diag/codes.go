package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedIncludePath  Code = 1005

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedParen      Code = 2002
	SynUnclosedBracket    Code = 2003
	SynUnclosedBrace      Code = 2004
	SynExpectSemicolon    Code = 2005
	SynExpectIdentifier   Code = 2006
	SynExpectExpression   Code = 2007
	SynExpectStatement    Code = 2008
	SynUnbalancedBrace    Code = 2009
	SynRecoveredStatement Code = 2010

	// Форматтер
	FmtInfo            Code = 3000
	FmtTokenMismatch   Code = 3001
	FmtRangeOutOfBound Code = 3002
	FmtSkippedUnknown  Code = 3003

	// Конфигурация
	CfgInfo         Code = 4000
	CfgInvalidValue Code = 4001
	CfgUnknownKey   Code = 4002
	CfgLoadError    Code = 4003

	IOLoadFileError Code = 5001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexUnterminatedIncludePath:  "Unterminated include path",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBracket:          "Unclosed bracket",
		SynUnclosedBrace:            "Unclosed brace",
		SynExpectSemicolon:          "Expected semicolon",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectExpression:         "Expected expression",
		SynExpectStatement:          "Expected statement",
		SynUnbalancedBrace:          "Unbalanced closing brace",
		SynRecoveredStatement:       "Statement left unformatted",
		FmtInfo:                     "Formatter information",
		FmtTokenMismatch:            "Formatted output changes tokens",
		FmtRangeOutOfBound:          "Range outside of document",
		FmtSkippedUnknown:           "Unparsed region kept verbatim",
		CfgInfo:                     "Configuration information",
		CfgInvalidValue:             "Invalid option value",
		CfgUnknownKey:               "Unknown option",
		CfgLoadError:                "Configuration file error",
		IOLoadFileError:             "I/O load file error",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("FMT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
