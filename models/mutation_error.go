package models

// MutationError is the error body returned by every non-2xx mutation
// response. Description and the action pair are optional; when a
// description is present the failure needs user attention rather than a
// plain retry, and the action pair (when both fields are set) points at
// the remediation step.
type MutationError struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	ActionHref  string `json:"action_href,omitempty"`
	ActionName  string `json:"action_name,omitempty"`
}

func (e *MutationError) Error() string {
	return e.Message
}

// HasAction reports whether a navigable remediation control should be
// rendered. Both fields must be present; one without the other is ignored.
func (e *MutationError) HasAction() bool {
	return e.ActionHref != "" && e.ActionName != ""
}
