package file

import "fmt"

// FieldIssue is one field-level problem found while validating a record.
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("data file not found: %s", e.Path) }

type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

type ValidationError struct {
	Path   string
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("invalid data in %s: %s: %s", e.Path, e.Issues[0].Path, e.Issues[0].Message)
	}
	return fmt.Sprintf("invalid data in %s: %d issues", e.Path, len(e.Issues))
}

type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }
