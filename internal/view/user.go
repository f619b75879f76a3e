package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"maji/local-app/internal/catalog"
	"maji/local-app/internal/guard"
	"maji/local-app/internal/model"
	"maji/local-app/internal/nav"
	"maji/local-app/internal/survey"
)

// ErrPartialSubmit is returned when some answers could not be stored.
var ErrPartialSubmit = errors.New("survey was not fully submitted")

// Surveys is where regular users answer the survey.
type Surveys struct {
	base

	mu   sync.Mutex
	form *survey.Form
}

// NewSurveys creates the survey answering view
func NewSurveys(deps *Deps) *Surveys {
	return &Surveys{base: newBase(deps, "user_surveys", guard.UserOnly)}
}

// Load fetches the questions and starts a fresh form. It is also the retry
// action.
func (v *Surveys) Load() (*survey.Form, error) {
	ctx, err := v.lifetime()
	if err != nil {
		return nil, err
	}

	done := v.busy()
	questions, err := v.deps.API.ListSurveys(ctx)
	done()
	if stale(ctx, err) {
		return nil, ErrNotEntered
	}
	if err != nil {
		return nil, &LoadError{Message: survey.MessageLoadFailed, Err: err}
	}

	form := survey.NewForm(questions, v.deps.API, v.deps.MaxInFlight, v.deps.Events, v.deps.Logger)
	v.mu.Lock()
	v.form = form
	v.mu.Unlock()
	return form, nil
}

// Form returns the loaded form, if any
func (v *Surveys) Form() (*survey.Form, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form, v.form != nil
}

// Answer fills question i (zero based). For questions with options, a
// 1-based option number selects that option.
func (v *Surveys) Answer(i int, answer string) error {
	form, ok := v.Form()
	if !ok {
		return ErrNotEntered
	}

	questions := form.Questions()
	if i >= 0 && i < len(questions) {
		answer = resolveOption(questions[i], answer)
	}
	return form.SetAnswer(i, answer)
}

func resolveOption(q model.Question, answer string) string {
	if n, err := strconv.Atoi(strings.TrimSpace(answer)); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1]
	}
	return answer
}

// Submit sends the answers. Local validation problems are reported as
// ValidationError; a partial failure is reported with the number of stored
// answers and the questions that failed.
func (v *Surveys) Submit() (*survey.Result, error) {
	ctx, err := v.lifetime()
	if err != nil {
		return nil, err
	}
	form, ok := v.Form()
	if !ok {
		return nil, ErrNotEntered
	}

	respondent := 0
	if rec, ok := v.deps.Sessions.Current(); ok {
		respondent = rec.ID
	}

	done := v.busy()
	result, err := form.Submit(ctx, respondent)
	done()
	if err != nil {
		if msg := survey.ValidationMessage(err); msg != "" {
			return nil, v.invalid(msg)
		}
		return nil, err
	}
	if stale(ctx, nil) {
		return result, ErrNotEntered
	}

	if result.Success() {
		v.deps.Notifications.Success(survey.MessageSubmitted, "")
		return result, nil
	}

	failed := make([]string, len(result.Failed))
	for i, o := range result.Failed {
		failed[i] = o.Question
	}
	v.deps.Notifications.Error(
		fmt.Sprintf("%s. %s. Fallaron: %s", survey.MessageSubmitFailed, result.Summary(), strings.Join(failed, "; ")),
		"",
	)
	return result, ErrPartialSubmit
}

// Back returns to the user menu
func (v *Surveys) Back() {
	v.Leave()
	v.deps.Navigator.Navigate(string(nav.UserLanding))
}

// Catalog is the phone catalog screen.
type Catalog struct {
	base

	mu     sync.Mutex
	loader *catalog.Loader
}

// NewCatalog creates the catalog view
func NewCatalog(deps *Deps) *Catalog {
	return &Catalog{base: newBase(deps, "catalog", guard.Authenticated)}
}

// Load fetches the catalog and every model's images. It is also the reload
// action.
func (v *Catalog) Load() (*catalog.Loader, error) {
	ctx, err := v.lifetime()
	if err != nil {
		return nil, err
	}

	loader := catalog.NewLoader(v.deps.API, v.deps.MaxInFlight, v.deps.Events, v.deps.Logger)
	done := v.busy()
	err = loader.Load(ctx)
	done()
	if stale(ctx, err) {
		return nil, ErrNotEntered
	}
	if err != nil {
		return nil, &LoadError{Message: catalog.MessageLoadFailed, Err: err}
	}

	v.mu.Lock()
	v.loader = loader
	v.mu.Unlock()
	return loader, nil
}

// Loader returns the loaded catalog, if any
func (v *Catalog) Loader() (*catalog.Loader, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loader, v.loader != nil
}

// AllImages fetches the images of every model in one request
func (v *Catalog) AllImages() ([]model.Image, error) {
	ctx, err := v.lifetime()
	if err != nil {
		return nil, err
	}

	done := v.busy()
	images, err := v.deps.API.AllImages(ctx)
	done()
	if stale(ctx, err) {
		return nil, ErrNotEntered
	}
	return images, err
}

// Toggle expands or collapses a model
func (v *Catalog) Toggle(modelID int) (bool, error) {
	ctx, err := v.lifetime()
	if err != nil {
		return false, err
	}
	loader, ok := v.Loader()
	if !ok {
		return false, ErrNotEntered
	}
	if _, _, found := loader.Find(modelID); !found {
		return false, v.invalid(fmt.Sprintf("No existe el modelo %d", modelID))
	}

	done := v.busy()
	defer done()
	return loader.Toggle(ctx, modelID)
}

// Collapse closes the model details
func (v *Catalog) Collapse() {
	if loader, ok := v.Loader(); ok {
		loader.Collapse()
	}
}

// Back returns to the user's landing route
func (v *Catalog) Back() {
	v.Leave()
	role, _ := v.deps.Sessions.Role()
	v.deps.Navigator.Navigate(string(nav.Landing(role)))
}
