package play

import "github.com/DJSaunders1997/GPTeasers/internal/quiz"

// questionMsg carries one question received from the stream.
type questionMsg struct {
	Question quiz.Question
}

// streamDoneMsg is sent once when the question stream completes.
type streamDoneMsg struct {
	Err error
}

// imageMsg carries the result of the topic image request.
type imageMsg struct {
	Ref string
	Err error
}
