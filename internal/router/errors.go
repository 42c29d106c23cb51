package router

import (
	"errors"

	"github.com/opsline/dailybot/internal/models"
)

// category tags an error with its semantic class for logging. Categories are
// stable; raw error text never reaches the user.
func category(err error) string {
	var dateErr *models.InvalidDateError
	var calErr *models.CalendarError
	switch {
	case errors.As(err, &dateErr),
		errors.Is(err, models.ErrMissingChannel),
		errors.Is(err, models.ErrMissingValue),
		errors.Is(err, models.ErrInvalidHours),
		errors.Is(err, models.ErrInvalidCount):
		return "validation"
	case errors.Is(err, models.ErrDirectoryUnavailable),
		errors.Is(err, models.ErrNotRegistered),
		errors.Is(err, models.ErrNameNotFound),
		errors.Is(err, models.ErrChannelTaken),
		errors.Is(err, models.ErrPublicChannel):
		return "directory"
	case errors.Is(err, models.ErrNotionError):
		return "notion"
	case errors.As(err, &calErr):
		return "calendar"
	case errors.Is(err, models.ErrLedgerUnavailable):
		return "ledger"
	case errors.Is(err, models.ErrHandlerTimeout):
		return "timeout"
	case errors.Is(err, models.ErrUnknownStep):
		return "unknown_step"
	default:
		return "unknown"
	}
}

// isValidation reports errors that leave an active survey at the same step
// instead of cancelling it.
func isValidation(err error) bool {
	return category(err) == "validation"
}

// userMessage maps an error to its user-visible reply. Unknown errors fall
// back to the generic message.
func userMessage(err error) string {
	var dateErr *models.InvalidDateError
	var calErr *models.CalendarError
	switch {
	case errors.As(err, &dateErr):
		return models.MsgInvalidDate(dateErr.Date)
	case errors.As(err, &calErr):
		if calErr.Message != "" {
			return calErr.Message
		}
		return models.MsgTryLater
	case errors.Is(err, models.ErrChannelTaken):
		return models.MsgChannelTaken
	case errors.Is(err, models.ErrPublicChannel):
		return models.MsgPublicChannel
	case errors.Is(err, models.ErrNameNotFound):
		return models.MsgNameNotFound
	case errors.Is(err, models.ErrNotRegistered):
		return models.MsgNotRegistered
	default:
		return models.MsgTryLater
	}
}
