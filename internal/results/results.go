// Package results provides the success/failure envelope returned by
// application service operations. An infrastructure error travels in the
// usual error return; a handled domain failure travels in the Failure slot.
package results

// OperationResult holds either a success or a failure payload.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](success S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &success}
}

// FailureResult wraps a failure payload.
func FailureResult[S any, F any](failure F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &failure}
}

// IsSuccess reports whether the result carries a success payload.
func (r OperationResult[S, F]) IsSuccess() bool { return r.Success != nil }

// IsFailure reports whether the result carries a failure payload.
func (r OperationResult[S, F]) IsFailure() bool { return r.Failure != nil }
