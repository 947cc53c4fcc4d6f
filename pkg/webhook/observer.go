package webhook

// DispatchObservation captures one dispatch outcome for metrics.
type DispatchObservation struct {
	Endpoint   string
	Method     string
	Outcome    string // "success" or a FailureKind
	StatusCode int
	DurationMS int64
}

// Observer receives one observation per dispatch.
type Observer interface {
	ObserveDispatch(DispatchObservation)
}

type noopObserver struct{}

func (noopObserver) ObserveDispatch(DispatchObservation) {}
