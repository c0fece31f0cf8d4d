package service

// FieldErrors carries per-field validation messages from a service back to
// the handler, which reports them as a 422 envelope.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return "validation failed"
}
