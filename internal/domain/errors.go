package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrCategoryInUse       = errors.New("category has transactions")
	ErrCategoryExists      = errors.New("category already exists")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidMonth        = errors.New("month must be between 1 and 12")
	ErrInvalidYear         = errors.New("invalid year")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrEmptyStatement      = errors.New("statement contains no usable rows")
	ErrUnsupportedFormat   = errors.New("unsupported statement format")
)

// Validation constants
const (
	MaxCategoryNameLength = 255
	MaxDescriptionLength  = 500
)
