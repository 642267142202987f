package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Vehicle errors
var (
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrVehicleAlreadyExists = errors.New("vehicle already exists")
	ErrInvalidLicensePlate  = errors.New("invalid license plate")
	ErrInvalidVehicleData   = errors.New("invalid vehicle data")
	ErrVehicleInactive      = errors.New("vehicle is inactive")
)

// Trip errors
var (
	ErrTripNotFound        = errors.New("trip not found")
	ErrInvalidDestination  = errors.New("invalid destination")
	ErrInvalidMileage      = errors.New("invalid mileage")
	ErrMileageBelowStart   = errors.New("end mileage is below start mileage")
	ErrInvalidParkingFloor = errors.New("invalid parking floor")
	ErrTripAlreadyEnded    = errors.New("trip already ended")
	ErrActiveTripExists    = errors.New("user already has an active trip")
)

// Reservation errors
var (
	ErrReservationNotFound       = errors.New("reservation not found")
	ErrInvalidTimeRange          = errors.New("invalid reservation time range")
	ErrInvalidReservationData    = errors.New("invalid reservation data")
	ErrReservationOverlap        = errors.New("reservation window overlaps an existing reservation")
	ErrReservationNotPending     = errors.New("reservation is not pending")
	ErrReservationStatusConflict = errors.New("reservation status has changed")
)

// Observation errors
var (
	ErrObservationNotFound    = errors.New("observation not found")
	ErrInvalidObservationType = errors.New("invalid observation type")
	ErrInvalidObservationData = errors.New("invalid observation data")
	ErrObservationResolved    = errors.New("observation already resolved")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)
