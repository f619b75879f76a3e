// Package survey collects one answer per question and submits them.
package survey

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"maji/local-app/internal/event"
	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
)

// User-facing messages
const (
	MessageSubmitted    = "¡Encuesta enviada exitosamente! Gracias por tu participación."
	MessageSubmitFailed = "Error al enviar la encuesta"
	MessageIncomplete   = "Debes responder todas las preguntas"
	MessageUnknownUser  = "Usuario no encontrado"
	MessageNoQuestions  = "No hay preguntas para responder"
	MessageLoadFailed   = "Error al cargar las encuestas"
)

var (
	ErrUnknownRespondent = errors.New("respondent is unknown")
	ErrIncomplete        = errors.New("not every question has an answer")
	ErrNoQuestions       = errors.New("there are no questions to answer")
	ErrBusy              = errors.New("a submission is already in progress")
	ErrNoSuchQuestion    = errors.New("no such question")
)

// State is the stage of the current submission attempt
type State int

const (
	Collecting State = iota
	Validating
	Submitting
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Submitter stores a single answer
type Submitter interface {
	SubmitAnswer(ctx context.Context, answer model.AnswerSubmission) (*model.AnswerRecord, error)
}

// Outcome is the result of submitting one answer
type Outcome struct {
	Index    int
	Question string
	Answer   string
	Err      error
}

// Result summarizes one submission attempt.
type Result struct {
	Total     int
	Submitted int
	Failed    []Outcome
}

// Success reports whether every answer was stored
func (r *Result) Success() bool {
	return len(r.Failed) == 0 && r.Submitted == r.Total
}

// Summary is the user-facing count, e.g. "3 de 5 respuestas enviadas".
func (r *Result) Summary() string {
	return fmt.Sprintf("%d de %d respuestas enviadas", r.Submitted, r.Total)
}

// Form holds the loaded questions and one answer slot per question. The
// slot count always equals the question count.
type Form struct {
	mu          sync.Mutex
	questions   []model.Question
	answers     []string
	sent        []bool
	state       State
	submitter   Submitter
	maxInFlight int
	events      *event.EventManager
	logger      *log.Logger
}

// NewForm creates a Form with an empty slot for every question.
// maxInFlight bounds concurrent requests; values below 1 mean no bound.
func NewForm(questions []model.Question, submitter Submitter, maxInFlight int, events *event.EventManager, logger *log.Logger) *Form {
	qs := append([]model.Question(nil), questions...)
	return &Form{
		questions:   qs,
		answers:     make([]string, len(qs)),
		sent:        make([]bool, len(qs)),
		submitter:   submitter,
		maxInFlight: maxInFlight,
		events:      events,
		logger:      logger,
	}
}

// Questions returns the loaded questions
func (f *Form) Questions() []model.Question {
	return append([]model.Question(nil), f.questions...)
}

// Answers returns a copy of the answer slots
func (f *Form) Answers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.answers...)
}

// Sent reports, per slot, whether the answer is already stored
func (f *Form) Sent() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.sent...)
}

// State returns the current state
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetAnswer fills slot i. Answers can be changed until they are stored.
func (f *Form) SetAnswer(i int, answer string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i < 0 || i >= len(f.answers) {
		return fmt.Errorf("%w: %d", ErrNoSuchQuestion, i+1)
	}
	if f.state == Submitting {
		return ErrBusy
	}
	if f.sent[i] {
		return fmt.Errorf("answer %d was already submitted", i+1)
	}
	f.answers[i] = answer
	if f.state != Collecting {
		f.state = Collecting
	}
	return nil
}

// Submit validates the slots and sends one request per answer that has not
// been stored yet, exactly as typed. Validation failures issue no requests. The returned
// Result is non-nil once requests were issued.
//
// Answers stored before a partial failure are not rolled back; a later Submit
// only sends the ones that failed.
func (f *Form) Submit(ctx context.Context, respondentID int) (*Result, error) {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	f.state = Validating

	if err := f.validate(respondentID); err != nil {
		f.state = Collecting
		f.mu.Unlock()
		f.logger.Debug(ctx, "Survey validation failed", log.Fields{"error": err})
		return nil, err
	}

	var pending []Outcome
	for i, q := range f.questions {
		if !f.sent[i] {
			pending = append(pending, Outcome{Index: i, Question: q.Text, Answer: f.answers[i]})
		}
	}
	total := len(f.questions)
	alreadySent := total - len(pending)
	f.state = Submitting
	f.mu.Unlock()

	f.logger.Info(ctx, "Submitting survey", log.Fields{"respondent": respondentID, "answers": len(pending)})

	var (
		mu        sync.Mutex
		completed int
		failed    []Outcome
	)

	g := new(errgroup.Group)
	if f.maxInFlight > 0 {
		g.SetLimit(f.maxInFlight)
	}
	for _, o := range pending {
		o := o
		g.Go(func() error {
			_, err := f.submitter.SubmitAnswer(ctx, model.AnswerSubmission{
				UserID:   respondentID,
				Question: o.Question,
				Answer:   o.Answer,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				o.Err = err
				failed = append(failed, o)
				return nil
			}
			completed++
			f.markSent(o.Index)
			return nil
		})
	}
	// Every goroutine reports through failed, never through the group
	_ = g.Wait()

	result := &Result{Total: total, Submitted: alreadySent + completed, Failed: sortOutcomes(failed)}

	f.mu.Lock()
	if result.Success() {
		f.state = Completed
		f.answers = make([]string, len(f.questions))
		f.sent = make([]bool, len(f.questions))
	} else {
		f.state = Failed
	}
	f.mu.Unlock()

	if result.Success() {
		f.logger.Info(ctx, "Survey submitted", log.Fields{"respondent": respondentID, "answers": total})
		if f.events != nil {
			f.events.Publish(event.Event{Type: event.SurveySubmitted, Data: respondentID})
		}
	} else {
		f.logger.Warn(ctx, "Survey partially submitted", log.Fields{
			"respondent": respondentID,
			"submitted":  result.Submitted,
			"failed":     len(result.Failed),
		})
	}
	return result, nil
}

func (f *Form) validate(respondentID int) error {
	if respondentID <= 0 {
		return ErrUnknownRespondent
	}
	if len(f.questions) == 0 {
		return ErrNoQuestions
	}
	for _, a := range f.answers {
		if strings.TrimSpace(a) == "" {
			return ErrIncomplete
		}
	}
	return nil
}

func (f *Form) markSent(i int) {
	f.mu.Lock()
	f.sent[i] = true
	f.mu.Unlock()
}

// ValidationMessage returns the user-facing text for a Submit error, or ""
// when err is not a validation error.
func ValidationMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnknownRespondent):
		return MessageUnknownUser
	case errors.Is(err, ErrIncomplete):
		return MessageIncomplete
	case errors.Is(err, ErrNoQuestions):
		return MessageNoQuestions
	default:
		return ""
	}
}

// sortOutcomes puts outcomes back in question order; completion order is
// arbitrary.
func sortOutcomes(outcomes []Outcome) []Outcome {
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Index < outcomes[j].Index })
	return outcomes
}
