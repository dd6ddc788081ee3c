package registration

import "fmt"

// ValidationKind identifies which rule rejected a request.
type ValidationKind int

const (
	MissingField ValidationKind = iota + 1
	InvalidPackageCode
	InvalidPhone
)

func (k ValidationKind) String() string {
	switch k {
	case MissingField:
		return "MissingField"
	case InvalidPackageCode:
		return "InvalidPackageCode"
	case InvalidPhone:
		return "InvalidPhone"
	default:
		return fmt.Sprintf("ValidationKind(%d)", int(k))
	}
}

// ValidationError is returned when a request fails validation. No store
// call has been made when it is returned.
type ValidationError struct {
	Kind  ValidationKind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return "Campo requerido faltante: " + e.Field
	case InvalidPackageCode:
		return "El código debe empezar con 6 y tener 13 dígitos"
	case InvalidPhone:
		return "El teléfono debe tener 9 dígitos"
	default:
		return "registro inválido"
	}
}

// CredentialError means no usable credential source was found for the store.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return "credenciales de Google: " + e.Err.Error()
}

func (e *CredentialError) Unwrap() error { return e.Err }

// StoreError wraps a failure reported by the backing store. Its message is
// the underlying error text.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }
