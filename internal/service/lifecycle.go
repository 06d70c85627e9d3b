package service

import "github.com/rs/zerolog/log"

// opState traces the lifecycle of a mutating engine call. REJECTED is terminal
// on validation/strategy errors, PREVIEWED is terminal for dry runs, and
// COMMITTED → DONE is the only path that mutates the store.
type opState string

const (
	stateReceived  opState = "RECEIVED"
	stateValidated opState = "VALIDATED"
	stateRejected  opState = "REJECTED"
	statePlanned   opState = "PLANNED"
	statePreviewed opState = "PREVIEWED"
	stateCommitted opState = "COMMITTED"
	stateDone      opState = "DONE"
)

func logState(op string, st opState) {
	log.Debug().Str("op", op).Str("state", string(st)).Msg("lifecycle")
}
