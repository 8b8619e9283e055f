package commands

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDelete Type = "delete"
	TypeList   Type = "list"
	TypeExport Type = "export"
)

var aliases = map[string]Type{
	"rm":     TypeDelete,
	"del":    TypeDelete,
	"remove": TypeDelete,
	"ls":     TypeList,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

// DeleteArgs holds the 1-based number shown next to the task.
type DeleteArgs struct {
	Number int
}

func (a DeleteArgs) Index() int {
	return a.Number - 1
}

type ExportArgs struct {
	Format string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Delete *DeleteArgs
	Export *ExportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	head, rest := raw, ""
	if i := strings.IndexFunc(raw, unicode.IsSpace); i >= 0 {
		head, rest = raw[:i], strings.TrimSpace(raw[i:])
	}
	head = strings.ToLower(head)
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeAdd:
		return parseAdd(input, rest)
	case TypeDelete:
		return parseDelete(input, rest)
	case TypeList:
		return Command{Type: TypeList, Raw: input}, nil
	case TypeExport:
		return parseExport(input, rest)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw, rest string) (Command, error) {
	if rest == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: rest}}, nil
}

func parseDelete(raw, rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires one task number"}
	}
	n, err := strconv.Atoi(strings.TrimPrefix(fields[0], "#"))
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid task number: %s", fields[0])}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Number: n}}, nil
}

func parseExport(raw, rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "export requires a format"}
	}
	return Command{Type: TypeExport, Raw: raw, Export: &ExportArgs{Format: strings.ToLower(fields[0])}}, nil
}
