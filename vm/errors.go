package vm

import "errors"

// Error kinds from spec §7. Accessors that return printable strings never
// fail (they return a padded blank register instead). These are returned
// by mutating calls and by the raw register readers ReadStackRegister and
// ReadMemRegister; ErrBadROM is not returned but appears in the panic
// message of IK13ROM.Validate.
var (
	ErrInvalidKey      = errors.New("vm: key coordinate outside the defined matrix")
	ErrInvalidRegister = errors.New("vm: register enumerant out of range")
	ErrShortRead       = errors.New("vm: state stream produced fewer bytes than state size")
	ErrWriteFailed     = errors.New("vm: state stream accepted fewer bytes than state size")
	ErrBadROM          = errors.New("vm: malformed ROM image")
)
