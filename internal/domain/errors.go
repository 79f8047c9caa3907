package domain

import "errors"

var (
	// ErrInvalidHandle is returned when a handle fails format validation.
	ErrInvalidHandle = errors.New("invalid X handle: use 1-15 letters, digits or underscores")
	// ErrProfileLinked is returned when a profile is already linked for the session.
	ErrProfileLinked = errors.New("a profile is already linked")
	// ErrProfileRequired is returned when starting the quiz requires a linked profile.
	ErrProfileRequired = errors.New("link your X handle before starting")
	// ErrBusy is returned while an operation of the same kind is still in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrWrongScreen indicates the action is not valid on the current screen.
	ErrWrongScreen = errors.New("action not available on this screen")
	// ErrNoSelection is returned when advancing without a selected option.
	ErrNoSelection = errors.New("no option selected")
	// ErrOptionOutOfRange indicates a selected option index does not exist.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrQuizComplete is returned when acting on a finished quiz.
	ErrQuizComplete = errors.New("quiz already completed")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEmptyBank indicates a bank without questions.
	ErrEmptyBank = errors.New("question bank has no questions")
	// ErrNoOptions indicates a question without options.
	ErrNoOptions = errors.New("question has no options")
	// ErrNegativePoints indicates an option with negative points.
	ErrNegativePoints = errors.New("option points must be non-negative")
	// ErrNotFound is returned by snapshot stores for absent keys.
	ErrNotFound = errors.New("not found")
)
