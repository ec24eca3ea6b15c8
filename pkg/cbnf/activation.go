package cbnf

import "fmt"

// Activation identifies a per-layer activation function.
type Activation uint8

const (
	ActivationRelu Activation = iota
	ActivationCrelu
	ActivationScrelu
	ActivationSigmoid
	ActivationTanh
)

var activationNames = [...]string{
	ActivationRelu:    "relu",
	ActivationCrelu:   "crelu",
	ActivationScrelu:  "screlu",
	ActivationSigmoid: "sigmoid",
	ActivationTanh:    "tanh",
}

// Valid reports whether a is one of the defined activations. Headers are not
// rejected for undefined activations; callers that evaluate the network
// should check this themselves.
func (a Activation) Valid() bool {
	return int(a) < len(activationNames)
}

func (a Activation) String() string {
	if a.Valid() {
		return activationNames[a]
	}
	return fmt.Sprintf("activation(%d)", uint8(a))
}
