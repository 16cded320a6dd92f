package entity

// Notices collects user-facing error messages for a single request.
type Notices struct {
	errors []string
}

func NewNotices() *Notices {
	return &Notices{}
}

func (n *Notices) AddError(message string) {
	n.errors = append(n.errors, message)
}

func (n *Notices) ErrorCount() int {
	if n == nil {
		return 0
	}
	return len(n.errors)
}

// Errors returns a copy of the queued messages.
func (n *Notices) Errors() []string {
	if n == nil {
		return nil
	}
	return append([]string(nil), n.errors...)
}
