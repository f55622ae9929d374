package store

import "time"

// #region decision-record

// Decision values recorded in the adaptation log.
const (
	DecisionCommit         = "commit"
	DecisionNoOp           = "no_op"
	DecisionHysteresisSkip = "hysteresis_skip"
	DecisionBoundReset     = "bound_reset"
)

// DecisionRecord is a single row in the adaptation_log table.
type DecisionRecord struct {
	RunID     string
	Iteration int
	Decision  string // DecisionCommit | DecisionNoOp | DecisionHysteresisSkip | DecisionBoundReset
	Action    string // the adaptation action that was decided
	Aggregate float64
	Model     string // model rendering after this iteration
	Reason    string
	CreatedAt time.Time
}

// #endregion decision-record
