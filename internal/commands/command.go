package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeSkip   Type = "skip"
	TypeEnergy Type = "energy"
	TypeRemind Type = "remind"
	TypeRead   Type = "read"
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

// AddArgs carries a quest title plus optional key:value modifiers, e.g.
// "/add Morning stretch cadence:weekly energy:Down unit:pages target:20".
type AddArgs struct {
	Title   string
	Cadence string
	Energy  string
	Slot    string
	Target  string
	Unit    string
}

type DoneArgs struct {
	Target string
}

type SkipArgs struct {
	Target string
}

type EnergyArgs struct {
	Level string
}

type RemindArgs struct {
	TimeOfDay string
	Label     string
}

// ReadArgs records today's reading session, e.g. "/read 24 minutes:30 The Hobbit".
type ReadArgs struct {
	Pages   string
	Minutes string
	Book    string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Skip   *SkipArgs
	Energy *EnergyArgs
	Remind *RemindArgs
	Read   *ReadArgs
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
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeSkip:
		return parseSkip(input, args)
	case TypeEnergy:
		return parseEnergy(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeRead:
		return parseRead(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	out := AddArgs{}
	titleWords := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok {
			titleWords = append(titleWords, arg)
			continue
		}
		switch strings.ToLower(key) {
		case "cadence":
			out.Cadence = value
		case "energy":
			out.Energy = value
		case "slot":
			out.Slot = value
		case "target":
			out.Target = value
		case "unit":
			out.Unit = value
		default:
			titleWords = append(titleWords, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(titleWords, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires a quest"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: strings.Join(args, " ")}}, nil
}

func parseSkip(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "skip requires a quest"}
	}
	return Command{Type: TypeSkip, Raw: raw, Skip: &SkipArgs{Target: strings.Join(args, " ")}}, nil
}

func parseEnergy(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "energy requires a level"}
	}
	return Command{Type: TypeEnergy, Raw: raw, Energy: &EnergyArgs{Level: strings.Join(args, " ")}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires a time and a label"}
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{
		TimeOfDay: args[0],
		Label:     strings.Join(args[1:], " "),
	}}, nil
}

func parseRead(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "read requires a page count"}
	}
	out := ReadArgs{Pages: args[0]}
	bookWords := make([]string, 0, len(args))
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, ":")
		if ok && strings.ToLower(key) == "minutes" {
			out.Minutes = value
			continue
		}
		bookWords = append(bookWords, arg)
	}
	out.Book = strings.TrimSpace(strings.Join(bookWords, " "))
	return Command{Type: TypeRead, Raw: raw, Read: &out}, nil
}
