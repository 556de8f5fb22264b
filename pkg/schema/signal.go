package schema

// InputKind enumerates the ways a host resumes a WaitForInput
// suspension.
type InputKind string

const (
	// InputAdvance resumes through the node's default/declared port.
	InputAdvance InputKind = "advance"
	// InputChoice selects a choice by index into the presented list.
	InputChoice InputKind = "choice"
	// InputPort resumes through an explicit output port, overriding the
	// node's declared default.
	InputPort InputKind = "port"
)

// Input is an external signal delivered to a suspended run.
type Input struct {
	Kind        InputKind `json:"kind"`
	ChoiceIndex int       `json:"choice_index,omitempty"`
	PortID      string    `json:"port_id,omitempty"`
}
