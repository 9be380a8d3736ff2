package assist

import (
	"encoding/json"
	"errors"
	"strings"
)

// UserFacingError maps collaborator and storage failures to canned apology
// strings. Raw internal error text never reaches the user.
func UserFacingError(err error) string {
	if err == nil {
		return ""
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	isJSON := errors.As(err, &syntaxErr) || errors.As(err, &typeErr)

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "authentication") || strings.Contains(msg, "unauthorized"):
		return "I'm having trouble connecting to my AI brain. Please check that your API key is configured correctly."
	case strings.Contains(msg, "connection") || strings.Contains(msg, "timeout") || strings.Contains(msg, "network"):
		return "I'm having trouble connecting to the internet. Please check your connection and try again."
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		return "I'm being rate limited. Please wait a moment and try again."
	case strings.Contains(msg, "invalid") || strings.Contains(msg, "validation"):
		return "There was an issue with your request. Could you try rephrasing it?"
	case isJSON || strings.Contains(msg, "json"):
		return "I had trouble understanding the response. Let me try again."
	case strings.Contains(msg, "database") || strings.Contains(msg, "sqlite") || strings.Contains(msg, "sql"):
		return "I encountered a database error. Your data should be safe, but please try again."
	}
	return "I encountered an unexpected error. Please try again, and if the problem persists, check the server logs for details."
}
