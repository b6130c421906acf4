package session

// Phase is the operation phase shown by the status readout
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Status pairs a phase with the label the user sees
type Status struct {
	Phase Phase
	Label string
}

func Idle() Status      { return Status{Phase: PhaseIdle, Label: "Ready"} }
func Sending() Status   { return Status{Phase: PhaseSending, Label: "Sending..."} }
func Resetting() Status { return Status{Phase: PhaseSending, Label: "Resetting..."} }
func Failed() Status    { return Status{Phase: PhaseError, Label: "Error"} }
