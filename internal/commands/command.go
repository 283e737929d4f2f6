package commands

import (
	"fmt"
	"strings"

	"github.com/vitaflowd/vitaflow/internal/model"
)

type Type string

const (
	TypeTake   Type = "take"
	TypeAdd    Type = "add"
	TypeRemove Type = "remove"
	TypeRemind Type = "remind"
	TypeImport Type = "import"
)

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

type TakeArgs struct {
	Target string
}

type AddArgs struct {
	Name   string
	Dosage string
}

type RemoveArgs struct {
	Target string
}

type RemindArgs struct {
	Target string
	Time   string
}

type ImportArgs struct {
	Text string
}

type Command struct {
	Type   Type
	Raw    string
	Take   *TakeArgs
	Add    *AddArgs
	Remove *RemoveArgs
	Remind *RemindArgs
	Import *ImportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeTake:
		return parseTake(input, args)
	case TypeAdd:
		return parseAdd(input, args)
	case TypeRemove:
		return parseRemove(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeImport:
		return parseImport(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseTake(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "take requires a supplement name or id"}
	}
	return Command{Type: TypeTake, Raw: raw, Take: &TakeArgs{Target: strings.Join(args, " ")}}, nil
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name"}
	}
	name := args[0]
	dosage := strings.TrimSpace(strings.Join(args[1:], " "))
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name, Dosage: dosage}}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remove requires a supplement name or id"}
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{Target: strings.Join(args, " ")}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires a target and an HH:MM time"}
	}
	at := args[len(args)-1]
	if err := model.ValidateReminderTime(at); err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid reminder time %q", at)}
	}
	target := strings.Join(args[:len(args)-1], " ")
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{Target: target, Time: at}}, nil
}

func parseImport(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "import requires free text to interpret"}
	}
	return Command{Type: TypeImport, Raw: raw, Import: &ImportArgs{Text: text}}, nil
}
