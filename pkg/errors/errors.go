package errors

import (
	stderrors "errors"
)

func (d Definition) Error() string {
	return d.Message
}

// Definition is a business error code with its default message.
type Definition struct {
	Code    string
	Message string
}

// Request and auth errors.
var (
	Unauthorized   = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID  = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	InvalidRequest = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	UserNotFound   = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	InvalidTZ      = Definition{Code: "INVALID_TIMEZONE", Message: "Unknown IANA timezone"}

	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please slow down"}
)

// Challenge eligibility. These are expected outcomes, rendered as a disabled
// affordance by the dashboard.
var (
	Locked           = Definition{Code: "LOCKED", Message: "Complete the required first challenge to unlock"}
	AlreadyActive    = Definition{Code: "ALREADY_ACTIVE", Message: "Challenge already active"}
	AlreadyCapped    = Definition{Code: "ALREADY_CAPPED", Message: "Active challenge limit reached"}
	AlreadyCompleted = Definition{Code: "ALREADY_COMPLETED", Message: "Challenge already completed"}
	NotActive        = Definition{Code: "CHALLENGE_NOT_ACTIVE", Message: "Challenge is not active"}
)

// Boost quota.
var (
	DailyQuotaExceeded         = Definition{Code: "DAILY_QUOTA_EXCEEDED", Message: "Daily boost limit reached for this category"}
	WeeklyQuotaExceeded        = Definition{Code: "WEEKLY_QUOTA_EXCEEDED", Message: "Weekly limit reached for this boost"}
	AlreadyCompletedThisWindow = Definition{Code: "ALREADY_COMPLETED_THIS_WINDOW", Message: "Boost already completed today"}
)

// Catalog and data integrity.
var (
	UnknownChallenge = Definition{Code: "UNKNOWN_CHALLENGE", Message: "Challenge not found"}
	UnknownBoost     = Definition{Code: "UNKNOWN_BOOST", Message: "Boost not found"}
	InvalidReference = Definition{Code: "INVALID_REFERENCE", Message: "Progress references an unknown catalog entry"}
	CatalogInvalid   = Definition{Code: "CATALOG_INVALID", Message: "Catalog definition invalid"}
)

// Store.
var (
	StoreUnavailable = Definition{Code: "STORE_UNAVAILABLE", Message: "Something went wrong, please try again"}
	Busy             = Definition{Code: "BUSY", Message: "Another update is in progress, please try again"}
)

// Lookup maps codes back to definitions.
var Lookup = map[string]Definition{
	Unauthorized.Code:               Unauthorized,
	InvalidUserID.Code:              InvalidUserID,
	InvalidRequest.Code:             InvalidRequest,
	UserNotFound.Code:               UserNotFound,
	InvalidTZ.Code:                  InvalidTZ,
	TooManyRequests.Code:            TooManyRequests,
	Locked.Code:                     Locked,
	AlreadyActive.Code:              AlreadyActive,
	AlreadyCapped.Code:              AlreadyCapped,
	AlreadyCompleted.Code:           AlreadyCompleted,
	NotActive.Code:                  NotActive,
	DailyQuotaExceeded.Code:         DailyQuotaExceeded,
	WeeklyQuotaExceeded.Code:        WeeklyQuotaExceeded,
	AlreadyCompletedThisWindow.Code: AlreadyCompletedThisWindow,
	UnknownChallenge.Code:           UnknownChallenge,
	UnknownBoost.Code:               UnknownBoost,
	InvalidReference.Code:           InvalidReference,
	CatalogInvalid.Code:             CatalogInvalid,
	StoreUnavailable.Code:           StoreUnavailable,
	Busy.Code:                       Busy,
}

var ineligible = map[string]struct{}{
	Locked.Code:                     {},
	AlreadyActive.Code:              {},
	AlreadyCapped.Code:              {},
	AlreadyCompleted.Code:           {},
	NotActive.Code:                  {},
	DailyQuotaExceeded.Code:         {},
	WeeklyQuotaExceeded.Code:        {},
	AlreadyCompletedThisWindow.Code: {},
}

// Get returns the Definition for code, or a generic one if the code is unknown.
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// AsDefinition unwraps err down to the first Definition in its chain.
func AsDefinition(err error) (Definition, bool) {
	var def Definition
	if stderrors.As(err, &def) {
		return def, true
	}
	return Definition{}, false
}

// IsIneligible reports whether err is a business rule rejection rather than a fault.
func IsIneligible(err error) bool {
	def, ok := AsDefinition(err)
	if !ok {
		return false
	}
	_, found := ineligible[def.Code]
	return found
}

// Is is stdlib errors.Is, re-exported so callers importing this package do not
// need both.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// SkipMessageError marks a queue message that was already handled and must be
// acked without processing.
type SkipMessageError struct {
	MessageID string
}

func (e *SkipMessageError) Error() string {
	return "message already processed: " + e.MessageID
}

func IsSkipMessage(err error) bool {
	var skip *SkipMessageError
	return stderrors.As(err, &skip)
}
