package model

// Question is a survey question as served by the backend. It has no
// identifier of its own; answers are matched back by position.
type Question struct {
	Text    string   `json:"pregunta" xml:"pregunta"`
	Options []string `json:"opciones,omitempty" xml:"opcion,omitempty"`
}

// AnswerSubmission is one answer to one question by one respondent.
type AnswerSubmission struct {
	UserID   int    `json:"usuarioId"`
	Question string `json:"pregunta"`
	Answer   string `json:"respuesta"`
}

// AnswerRecord is a stored answer as returned by the backend.
type AnswerRecord struct {
	ID       int    `json:"id"`
	UserID   int    `json:"usuarioId"`
	Question string `json:"pregunta"`
	Answer   string `json:"respuesta"`
}
