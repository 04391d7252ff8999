package shell

import (
	"slices"
	"strings"

	"github.com/tartampluch/go-assistant/internal/config"
)

// Command is one parsed input line. The concrete types below are the only
// implementations.
type Command interface {
	command()
}

// Blank is an empty or whitespace-only line.
type Blank struct{}

// Hello asks for the greeting.
type Hello struct{}

// Add creates a contact.
type Add struct{ Name, Phone string }

// Change updates the phone of an existing contact.
type Change struct{ Name, Phone string }

// Phone looks up the phone of a contact.
type Phone struct{ Name string }

// All lists every contact.
type All struct{}

// Exit ends the session.
type Exit struct{}

// Unknown carries a keyword nobody recognizes.
type Unknown struct{ Keyword string }

func (Blank) command()   {}
func (Hello) command()   {}
func (Add) command()     {}
func (Change) command()  {}
func (Phone) command()   {}
func (All) command()     {}
func (Exit) command()    {}
func (Unknown) command() {}

// Parse splits line on whitespace into a keyword and up to two arguments.
// The keyword is case-insensitive. Missing arguments are empty strings and
// extra tokens are ignored.
func Parse(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Blank{}
	}

	keyword := strings.ToLower(fields[0])
	name, phone := arg(fields, 1), arg(fields, 2)

	switch keyword {
	case config.KeywordHello:
		return Hello{}
	case config.KeywordAdd:
		return Add{Name: name, Phone: phone}
	case config.KeywordChange:
		return Change{Name: name, Phone: phone}
	case config.KeywordPhone:
		return Phone{Name: name}
	case config.KeywordAll:
		return All{}
	}
	if slices.Contains(config.ExitKeywords, keyword) {
		return Exit{}
	}
	return Unknown{Keyword: fields[0]}
}

func arg(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
