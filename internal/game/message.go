package game

import (
	"context"
	"errors"

	"github.com/DJSaunders1997/GPTeasers/internal/api"
	"github.com/DJSaunders1997/GPTeasers/internal/llm"
	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
	"github.com/DJSaunders1997/GPTeasers/internal/store"
	"github.com/DJSaunders1997/GPTeasers/internal/stream"
)

// UserMessage turns err into a short notice fit for the user. Details
// belong in the log.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *quiz.ValidationError
	var serr *stream.StreamError
	var rerr *api.RequestError
	var nerr *api.NetworkError
	var stErr *store.StorageError

	switch {
	case errors.As(err, &verr):
		if verr.Field == "count" {
			return "Please choose at least one question."
		}
		return "Please enter a valid " + verr.Field + "."
	case errors.Is(err, context.Canceled):
		return "Quiz cancelled."
	}

	// Local generation failures arrive wrapped in a StreamError.
	if kind, ok := llm.KindOf(err); ok {
		switch kind {
		case llm.KindAuth:
			return "The LLM provider rejected the API key. Check your key settings."
		case llm.KindRateLimited:
			return "The LLM provider is rate limiting requests. Please wait and try again."
		case llm.KindRejected:
			return "The LLM provider does not accept this model. Pick another model."
		}
	}

	switch {
	case errors.As(err, &serr):
		return "Failed to fetch quiz data. Please try again."
	case errors.As(err, &rerr) && rerr.Endpoint == api.PathGenerateImage,
		errors.As(err, &nerr) && nerr.Endpoint == api.PathGenerateImage:
		return "Failed to fetch AI image. Please try again."
	case errors.As(err, &nerr):
		return "Could not reach the quiz server. Check your connection."
	case errors.As(err, &rerr):
		return "The quiz server rejected the request. Please try again."
	case errors.As(err, &stErr):
		return "Quiz history is unavailable."
	}
	return "An error occurred. Please check the log for more details."
}
