package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Загрузка и разбор
	ParseInfo      Code = 2000
	ParsePartial   Code = 2001 // parser recovered from malformed input
	ParseFailed    Code = 2002
	ParseNoGrammar Code = 2003

	// Абстракция
	AbsInfo         Code = 3000
	AbsOverlap      Code = 3001
	AbsInconsistent Code = 3002
	AbsTimeout      Code = 3003
	AbsUnknownLang  Code = 3004

	// Ввод-вывод
	IOLoadFile    Code = 4001
	IOWriteFile   Code = 4002
	DatasetDecode Code = 4003
	CacheIO       Code = 4004

	// Конфигурация
	ConfigUnknownCategory Code = 5001
	ConfigInvalid         Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	ParseInfo:             "Parser information",
	ParsePartial:          "Source parsed with errors",
	ParseFailed:           "Source could not be parsed",
	ParseNoGrammar:        "No grammar for language",
	AbsInfo:               "Abstraction information",
	AbsOverlap:            "Overlapping occurrences",
	AbsInconsistent:       "Abstraction does not match source",
	AbsTimeout:            "Abstraction timed out",
	AbsUnknownLang:        "Cannot determine language",
	IOLoadFile:            "Cannot read file",
	IOWriteFile:           "Cannot write file",
	DatasetDecode:         "Malformed dataset record",
	CacheIO:               "Cache read or write failed",
	ConfigUnknownCategory: "Unknown abstraction category",
	ConfigInvalid:         "Invalid configuration",
}

// ID returns the stable string identifier, e.g. "ABS3001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("PAR%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ABS%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
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
