// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired        = "auth.required"
	KeyAuthInvalidIdentity = "auth.invalid_identity"
	KeyAuthLoginSuccess    = "auth.login_success"

	// Permissions
	KeyPermissionDenied = "permission.denied"

	// Not found
	KeyNotFound             = "not_found"
	KeyNotificationNotFound = "notification.not_found"

	KeyNotificationRead = "notification.read"

	KeyInternalError = "error.internal"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// File Upload
	KeyFileTooLarge = "file.too_large"

	// Rate limiting
	KeyRateLimited = "rate.limited"
)
