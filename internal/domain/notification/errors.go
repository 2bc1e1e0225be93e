package notification

import "laborhub/internal/domain"

var (
	ErrNotificationNotFound = domain.NewNotFound("Notification not found.")
	ErrInvalidRecipient     = domain.NewValidation("Recipient id and role are required.")
	ErrEmptyMessage         = domain.NewValidation("Message is required.")
)
