package service

import "fmt"

// Error is a domain outcome with a stable symbolic code. The codes are the
// contract the HTTP boundary maps to statuses; handlers match the sentinel
// values below with errors.Is.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// Booking workflow
	ErrTermNotFound      = &Error{Code: "TERM_NOT_FOUND", Message: "training term does not exist"}
	ErrNoTrainerSelected = &Error{Code: "NO_TRAINER_SELECTED", Message: "client has no assigned trainer"}
	ErrDifferentTrainer  = &Error{Code: "DIFFERENT_TRAINER", Message: "term belongs to a different trainer"}
	ErrTooLate           = &Error{Code: "TOO_LATE", Message: "less than 60 minutes before the session starts"}
	ErrTermCanceled      = &Error{Code: "CANCELED", Message: "term has been canceled"}
	ErrAlreadyEnrolled   = &Error{Code: "ALREADY_ENROLLED", Message: "client is already enrolled in this term"}
	ErrTermFull          = &Error{Code: "FULL", Message: "term is at capacity"}
	ErrNotEnrolled       = &Error{Code: "NOT_ENROLLED", Message: "no active enrollment for this term"}

	// Trainer scheduling workflow
	ErrCancelWithin60Min = &Error{Code: "CANNOT_CANCEL_WITHIN_60_MIN", Message: "term starts in less than 60 minutes"}
	ErrTermNotFinished   = &Error{Code: "TERM_NOT_FINISHED", Message: "session has not finished yet"}
	ErrBadRating         = &Error{Code: "BAD_RATING", Message: "rating must be between 1 and 10"}
	ErrNotAllowed        = &Error{Code: "NOT_ALLOWED", Message: "operation not permitted for this user"}
	ErrBadCapacity       = &Error{Code: "BAD_CAPACITY", Message: "group capacity must be between 2 and 30"}
	ErrStartInPast       = &Error{Code: "START_IN_PAST", Message: "term start time is in the past"}
	ErrProgramNotFound   = &Error{Code: "PROGRAM_NOT_FOUND", Message: "program does not exist"}
	ErrProgramInUse      = &Error{Code: "IN_USE", Message: "program is attached to an upcoming term"}

	// Auth
	ErrInvalidCredentials = &Error{Code: "INVALID_CREDENTIALS", Message: "wrong email or password"}
	ErrUserBlocked        = &Error{Code: "USER_BLOCKED", Message: "account is blocked"}
	ErrUserNotFound       = &Error{Code: "USER_NOT_FOUND", Message: "user does not exist"}
	ErrEmailTaken         = &Error{Code: "EMAIL_TAKEN", Message: "email is already registered"}
	ErrChallengeNotFound  = &Error{Code: "CHALLENGE_NOT_FOUND", Message: "challenge does not exist"}
	ErrChallengeExpired   = &Error{Code: "CHALLENGE_EXPIRED", Message: "challenge has expired"}
	ErrChallengeConsumed  = &Error{Code: "CHALLENGE_CONSUMED", Message: "challenge was already used"}
	ErrChallengeLocked    = &Error{Code: "CHALLENGE_LOCKED", Message: "too many wrong codes"}
	ErrBadCode            = &Error{Code: "BAD_CODE", Message: "wrong verification code"}

	// Billing
	ErrBadMonth = &Error{Code: "BAD_MONTH", Message: "month must look like 2026-08"}
)
