package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// Authentication
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// Authorization
	ErrForbidden           ErrCode = "FORBIDDEN"
	ErrParticipantOnly     ErrCode = "PARTICIPANT_ACCESS_ONLY"
	ErrOrganizerOnly       ErrCode = "ORGANIZER_ACCESS_ONLY"
	ErrNotAttemptOwner     ErrCode = "NOT_ATTEMPT_OWNER"

	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// Test-taking
	ErrTestNotAvailable    ErrCode = "TEST_NOT_AVAILABLE"
	ErrAttemptNotFound     ErrCode = "ATTEMPT_NOT_FOUND"
	ErrAttemptFinished     ErrCode = "ATTEMPT_ALREADY_FINISHED"
	ErrQuestionOutOfScope  ErrCode = "QUESTION_OUT_OF_SCOPE"

	// Server
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrParticipantOnly:
		return "This resource is restricted to participants."
	case ErrOrganizerOnly:
		return "This resource is restricted to organizers."
	case ErrNotAttemptOwner:
		return "This attempt belongs to another participant."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrTestNotAvailable:
		return "This test is not currently available."
	case ErrAttemptNotFound:
		return "No such attempt."
	case ErrAttemptFinished:
		return "This attempt has already been finished."
	case ErrQuestionOutOfScope:
		return "The question does not belong to this section."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
