package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(DoneArgs) (Result, error)
	Skip   func(SkipArgs) (Result, error)
	Energy func(EnergyArgs) (Result, error)
	Remind func(RemindArgs) (Result, error)
	Read   func(ReadArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeSkip:
		if handlers.Skip == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "skip handler not configured"}
		}
		return handlers.Skip(*cmd.Skip)
	case TypeEnergy:
		if handlers.Energy == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "energy handler not configured"}
		}
		return handlers.Energy(*cmd.Energy)
	case TypeRemind:
		if handlers.Remind == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "remind handler not configured"}
		}
		return handlers.Remind(*cmd.Remind)
	case TypeRead:
		if handlers.Read == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "read handler not configured"}
		}
		return handlers.Read(*cmd.Read)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
