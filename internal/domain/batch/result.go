package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK       ItemStatus = "ok"
	StatusRejected ItemStatus = "rejected"
	StatusMissing  ItemStatus = "missing"
)

// Result is the outcome of processing one document in a batch call.
type Result struct {
	id     string
	status ItemStatus
	errs   []error
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewRejected creates a result for a document that failed validation.
func NewRejected(id string, errs ...error) Result {
	return Result{id: id, status: StatusRejected, errs: errs}
}

// NewMissing creates a result for an id that does not exist.
func NewMissing(id string) Result { return Result{id: id, status: StatusMissing} }

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// OK reports whether the item was processed.
func (r Result) OK() bool { return r.status == StatusOK }

// Errors returns the error messages, never nil.
func (r Result) Errors() []string {
	out := make([]string, len(r.errs))
	for i, err := range r.errs {
		out[i] = err.Error()
	}
	return out
}
