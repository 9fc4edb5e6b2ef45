package chunk

import "errors"

var (
	// ErrInvalidTemplate marks construction-time validation failures:
	// non-positive weight or extents.
	ErrInvalidTemplate = errors.New("chunk: invalid template")

	// ErrTemplateSealed is returned when a template is modified after it
	// has been added to a library.
	ErrTemplateSealed = errors.New("chunk: template is sealed")

	// ErrNoMatchingTemplate is returned by Library.SelectRandom when the
	// filtered candidate set is empty. It is distinct from validation
	// errors: an empty draw is an expected runtime condition.
	ErrNoMatchingTemplate = errors.New("chunk: no template matches the selection filter")

	// ErrContextClosed is returned when filling a context that is no
	// longer open. A context transitions open to filled (or dropped)
	// exactly once and never reverts.
	ErrContextClosed = errors.New("chunk: context is not open")

	// ErrRotationNotAllowed is returned when instantiating a rotated
	// chunk from a template that forbids rotation.
	ErrRotationNotAllowed = errors.New("chunk: template does not allow rotation")
)
