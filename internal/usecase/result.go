package usecase

// Status is the outcome class of one aggregation stage.
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Result carries a stage value together with how it was obtained. Value is
// always usable: failed and empty results hold an empty but non-nil value.
type Result[T any] struct {
	Value  T      `json:"value"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	Err    error  `json:"-"`
}

func (r Result[T]) OK() bool {
	return r.Status == StatusOK
}

func okResult[T any](value T) Result[T] {
	return Result[T]{Value: value, Status: StatusOK}
}

func emptyResult[T any](value T, reason string) Result[T] {
	return Result[T]{Value: value, Status: StatusEmpty, Reason: reason}
}

func failedResult[T any](value T, err error) Result[T] {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return Result[T]{Value: value, Status: StatusFailed, Reason: reason, Err: err}
}
