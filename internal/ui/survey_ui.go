package ui

import (
	"fmt"

	"maji/local-app/internal/model"
	"maji/local-app/internal/survey"
)

// QuestionList displays the survey questions with their options
func (u *UI) QuestionList(questions []model.Question) {
	if len(questions) == 0 {
		u.Println("No hay preguntas registradas.")
		return
	}
	for i, q := range questions {
		u.Printf("%s %s\n", u.colorize(fmt.Sprintf("%d.", i+1), ColorLightBlue), q.Text)
		for j, opt := range q.Options {
			u.Printf("     %s %s\n", u.colorize(fmt.Sprintf("%d)", j+1), ColorGray), opt)
		}
	}
}

// SurveyForm displays every question next to its current answer.
func (u *UI) SurveyForm(form *survey.Form) {
	questions := form.Questions()
	if len(questions) == 0 {
		u.Println(survey.MessageNoQuestions)
		return
	}

	answers := form.Answers()
	sent := form.Sent()
	for i, q := range questions {
		u.Printf("%s %s\n", u.colorize(fmt.Sprintf("%d.", i+1), ColorLightBlue), q.Text)
		for j, opt := range q.Options {
			u.Printf("     %s %s\n", u.colorize(fmt.Sprintf("%d)", j+1), ColorGray), opt)
		}
		switch {
		case sent[i]:
			u.Printf("   → %s %s\n", answers[i], u.colorize("(enviada)", ColorLightGreen))
		case answers[i] != "":
			u.Printf("   → %s\n", u.colorize(answers[i], ColorLightYellow))
		default:
			u.PrintlnColored("   → sin responder", ColorGray)
		}
	}
}

// SurveyResult displays the outcome of a submission
func (u *UI) SurveyResult(result *survey.Result) {
	if result.Success() {
		u.PrintlnColored(result.Summary(), ColorLightGreen)
		return
	}
	u.PrintlnColored(result.Summary(), ColorLightYellow)
	for _, o := range result.Failed {
		u.Printf("  %s %d. %s\n", u.colorize("✗", ColorRed), o.Index+1, o.Question)
	}
}
