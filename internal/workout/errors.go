package workout

import "errors"

const (
	// InvalidInputMessage is shown when a form value is not a positive number.
	InvalidInputMessage = "As entradas devem ser números positivos!"
	// MissingLocationMessage is shown when the form is submitted before a map click.
	MissingLocationMessage = "Clique no mapa para escolher o local do treino."
	// GeolocationMessage is shown when the current position cannot be obtained.
	GeolocationMessage = "Erro ao obter a localização atual, tente novamente."
)

var (
	ErrInvalidMetric          = errors.New("workout: distance, duration and metric must be finite and positive")
	ErrNotFound               = errors.New("workout: not found")
	ErrUnknownKind            = errors.New("workout: unknown kind")
	ErrMissingPendingLocation = errors.New("workout: no pending location")
	ErrInvalidInput           = errors.New("workout: invalid input")
	ErrGeolocationDenied      = errors.New("geolocation: permission denied")
	ErrGeolocationUnavailable = errors.New("geolocation: position unavailable")
)

// ValidationError rejects a single form submission. Message is safe to show
// to the user; Err says which rule failed.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Reason is a short label for the failed rule, used in metrics and responses.
func (e *ValidationError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrMissingPendingLocation):
		return "missing_location"
	case errors.Is(e.Err, ErrUnknownKind):
		return "unknown_kind"
	default:
		return "invalid_input"
	}
}

// GeolocationError reports a failed attempt to get the user's position.
type GeolocationError struct {
	Message string
	Err     error
}

func (e *GeolocationError) Error() string {
	return e.Message
}

func (e *GeolocationError) Unwrap() error {
	return e.Err
}

func (e *GeolocationError) Reason() string {
	if errors.Is(e.Err, ErrGeolocationDenied) {
		return "denied"
	}
	return "unavailable"
}
