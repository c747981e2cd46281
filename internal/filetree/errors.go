package filetree

import "github.com/pkg/errors"

var (
	// ErrCorruptData is returned when a storage container is not a
	// well-formed directory structure.
	ErrCorruptData = errors.New("corrupt data")

	// ErrEncoding is returned by Payload.Data when the payload holds
	// neither text nor binary content.
	ErrEncoding = errors.New("payload has no encodable content")

	// ErrNotFound is returned when a rename or remove target is absent.
	ErrNotFound = errors.New("no such file or folder")

	// ErrNameCollision is returned when a rename target is already taken.
	ErrNameCollision = errors.New("name already exists")
)

// ErrInvalidName is returned for names that cannot be a single path element.
var ErrInvalidName = errors.New("invalid name")
