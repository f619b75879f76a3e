// Package apitest provides an in-memory MAJI backend for tests.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"maji/local-app/internal/model"
)

// Failure is a canned error response
type Failure struct {
	Status int
	// Body is written as is; JSON bodies need ContentType set.
	Body        string
	ContentType string
}

// Server is a fake backend serving the REST contract under /api.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	users     []model.User
	questions []model.Question
	brands    []model.Brand
	images    map[int][]model.Image
	answers   []model.AnswerSubmission
	calls     map[string]int
	failures  map[string]Failure
	gate      chan struct{}
}

// NewServer starts a fake backend that is closed when the test ends
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		images:   map[int][]model.Image{},
		calls:    map[string]int{},
		failures: map[string]Failure{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to configure clients with
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

func (s *Server) routes() http.Handler {
	api := chi.NewRouter()
	api.Use(s.record)

	api.Post("/Usuario", s.createUser)
	api.Get("/Usuario", s.listUsers)
	api.Post("/Usuario/validar-acceso", s.validateCredentials)
	api.Get(`/Usuario/{id:^\d+$}`, s.getUser)

	api.Get("/Encuesta", s.listSurveys)
	api.Post("/RespuestaEncuesta", s.submitAnswer)

	api.Get("/Catalogo/completo", s.catalog)
	api.Get("/Catalogo/imagenes", s.allImages)
	api.Get(`/Catalogo/imagenes/{modelId:^\d+$}`, s.imagesForModel)

	root := chi.NewRouter()
	root.Mount("/api", api)
	return root
}

// record counts the call and short-circuits with an injected failure.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.calls[key]++
		failure, fail := s.failures[key]
		gate := s.gate
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}

		if fail {
			if failure.ContentType != "" {
				w.Header().Set("Content-Type", failure.ContentType)
			}
			w.WriteHeader(failure.Status)
			w.Write([]byte(failure.Body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AddUser stores u, assigning an ID when it has none, and returns it.
func (s *Server) AddUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = len(s.users) + 1
	}
	s.users = append(s.users, u)
	return u
}

// SetQuestions replaces the survey questions
func (s *Server) SetQuestions(questions ...model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = questions
}

// SetCatalog replaces the catalog
func (s *Server) SetCatalog(brands ...model.Brand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands = brands
}

// SetImages replaces the images of one model
func (s *Server) SetImages(modelID int, images ...model.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[modelID] = images
}

// Fail makes every request to "METHOD /path" (path relative to the API
// root) answer with f.
func (s *Server) Fail(method, path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" /api"+path] = f
}

// Recover removes a failure injected with Fail
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" /api"+path)
}

// Hold blocks every request until the returned function is called.
func (s *Server) Hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns how many requests hit "METHOD /path"
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" /api"+path]
}

// TotalCalls returns the number of requests received
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Answers returns the answers stored so far
func (s *Server) Answers() []model.AnswerSubmission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.AnswerSubmission(nil), s.answers...)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var reg model.UserRegistration
	if err := render.DecodeJSON(r.Body, &reg); err != nil {
		http.Error(w, "Solicitud inválida", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	for _, u := range s.users {
		if u.NationalID == reg.NationalID {
			s.mu.Unlock()
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, map[string]string{
				"message": "Ya existe un usuario con esa cédula",
				"title":   "Usuario duplicado",
			})
			return
		}
	}
	user := model.User{
		ID:         len(s.users) + 1,
		FullName:   reg.FullName,
		NationalID: reg.NationalID,
		Password:   reg.Password,
		Role:       model.RoleUser,
	}
	s.users = append(s.users, user)
	s.mu.Unlock()

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := append([]model.User{}, s.users...)
	s.mu.Unlock()
	render.JSON(w, r, users)
}

func (s *Server) validateCredentials(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := render.DecodeJSON(r.Body, &creds); err != nil {
		http.Error(w, "Solicitud inválida", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.NationalID == creds.NationalID && u.Password == creds.Password {
			u.Password = ""
			render.JSON(w, r, u)
			return
		}
	}
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]string{
		"message": "Cédula o contraseña incorrecta",
		"title":   "Acceso denegado",
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			render.JSON(w, r, u)
			return
		}
	}
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, map[string]string{"message": "Usuario no encontrado"})
}

func (s *Server) listSurveys(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	questions := append([]model.Question{}, s.questions...)
	s.mu.Unlock()
	render.JSON(w, r, questions)
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var answer model.AnswerSubmission
	if err := render.DecodeJSON(r.Body, &answer); err != nil {
		http.Error(w, "Solicitud inválida", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.answers = append(s.answers, answer)
	record := model.AnswerRecord{
		ID:       len(s.answers),
		UserID:   answer.UserID,
		Question: answer.Question,
		Answer:   answer.Answer,
	}
	s.mu.Unlock()

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, record)
}

func (s *Server) catalog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	brands := append([]model.Brand{}, s.brands...)
	s.mu.Unlock()
	render.JSON(w, r, brands)
}

func (s *Server) allImages(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	images := []model.Image{}
	for _, brand := range s.brands {
		for _, m := range brand.Models {
			images = append(images, s.images[m.ID]...)
		}
	}
	s.mu.Unlock()
	render.JSON(w, r, images)
}

func (s *Server) imagesForModel(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "modelId"))

	s.mu.Lock()
	images := append([]model.Image{}, s.images[id]...)
	s.mu.Unlock()
	render.JSON(w, r, images)
}
