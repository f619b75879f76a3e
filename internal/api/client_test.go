package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"maji/local-app/internal/api/apitest"
	"maji/local-app/internal/apierr"
	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
	"maji/local-app/internal/notify"
)

func newTestClient(t *testing.T, baseURL string) (*Client, *notify.Channel) {
	t.Helper()
	channel := notify.NewChannel()
	errs := apierr.NewNormalizer(channel, notify.NewIndicator(), log.Discard())
	return NewClient(Options{BaseURL: baseURL, Timeout: 5 * time.Second}, errs, log.Discard()), channel
}

func TestClient_ValidateCredentials(t *testing.T) {
	backend := apitest.NewServer(t)
	backend.AddUser(model.User{ID: 1, FullName: "Ana", NationalID: "123", Password: "abc", Role: model.RoleAdmin})
	client, _ := newTestClient(t, backend.BaseURL())

	user, err := client.ValidateCredentials(context.Background(), model.Credentials{NationalID: "123", Password: "abc"})
	if err != nil {
		t.Fatalf("ValidateCredentials: %v", err)
	}
	if user.ID != 1 || user.Role != model.RoleAdmin || user.Password != "" {
		t.Errorf("unexpected user %+v", user)
	}

	_, err = client.ValidateCredentials(context.Background(), model.Credentials{NationalID: "123", Password: "bad"})
	apiErr, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected apierr.Error, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Title != "Acceso denegado" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestClient_Users(t *testing.T) {
	backend := apitest.NewServer(t)
	client, _ := newTestClient(t, backend.BaseURL())
	ctx := context.Background()

	created, err := client.CreateUser(ctx, model.UserRegistration{FullName: "Luis", NationalID: "456", Password: "pw"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.Role != model.RoleUser {
		t.Errorf("new users should be regular users, got %q", created.Role)
	}

	_, err = client.CreateUser(ctx, model.UserRegistration{FullName: "Luis", NationalID: "456", Password: "pw"})
	if apiErr, ok := apierr.As(err); !ok || apiErr.Title != "Usuario duplicado" {
		t.Errorf("expected duplicate error, got %v", err)
	}

	users, err := client.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("ListUsers = %v, %v", users, err)
	}

	user, err := client.GetUser(ctx, created.ID)
	if err != nil || user.FullName != "Luis" {
		t.Errorf("GetUser = %+v, %v", user, err)
	}

	_, err = client.GetUser(ctx, 99)
	if apiErr, ok := apierr.As(err); !ok || apiErr.Title != "Error 404" || apiErr.Message != "Usuario no encontrado" {
		t.Errorf("expected message-only 404, got %v", err)
	}
}

func TestClient_SurveysAndCatalog(t *testing.T) {
	backend := apitest.NewServer(t)
	backend.SetQuestions(model.Question{Text: "¿Color favorito?", Options: []string{"Rojo", "Azul"}})
	backend.SetCatalog(model.Brand{ID: 1, Name: "Acme", Models: []model.PhoneModel{{ID: 10, Name: "X1", Price: 1500000}}})
	backend.SetImages(10, model.Image{ID: 1, Path: "https://img/x1.png", ModelID: 10})
	client, _ := newTestClient(t, backend.BaseURL())
	ctx := context.Background()

	questions, err := client.ListSurveys(ctx)
	if err != nil || len(questions) != 1 || len(questions[0].Options) != 2 {
		t.Fatalf("ListSurveys = %+v, %v", questions, err)
	}

	record, err := client.SubmitAnswer(ctx, model.AnswerSubmission{UserID: 1, Question: "¿Color favorito?", Answer: "Rojo"})
	if err != nil || record.ID == 0 || record.Answer != "Rojo" {
		t.Errorf("SubmitAnswer = %+v, %v", record, err)
	}

	brands, err := client.Catalog(ctx)
	if err != nil || len(brands) != 1 || brands[0].Models[0].Price != 1500000 {
		t.Fatalf("Catalog = %+v, %v", brands, err)
	}

	images, err := client.ImagesForModel(ctx, 10)
	if err != nil || len(images) != 1 {
		t.Errorf("ImagesForModel = %+v, %v", images, err)
	}

	all, err := client.AllImages(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("AllImages = %+v, %v", all, err)
	}
}

func TestClient_ConnectionError(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	client, channel := newTestClient(t, url+"/api")
	_, err := client.ListUsers(context.Background())

	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Title != apierr.ConnectionTitle || apiErr.Status != 0 {
		t.Fatalf("expected connection error, got %v", err)
	}
	if cur, ok := channel.Current(); !ok || cur.Title != apierr.ConnectionTitle {
		t.Errorf("connection error was not published: %+v", cur)
	}
}

func TestClient_PlainTextFailure(t *testing.T) {
	backend := apitest.NewServer(t)
	backend.Fail(http.MethodGet, "/Encuesta", apitest.Failure{Status: http.StatusInternalServerError, Body: "Base de datos caída"})
	client, _ := newTestClient(t, backend.BaseURL())

	_, err := client.ListSurveys(context.Background())
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Title != "Error 500" || apiErr.Message != "Base de datos caída" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestClient_UndecodableSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>proxy</body></html>"))
	}))
	defer srv.Close()
	client, channel := newTestClient(t, srv.URL)

	_, err := client.Catalog(context.Background())
	apiErr, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected apierr.Error, got %v", err)
	}
	if apiErr.Status != http.StatusOK || apiErr.Title != "Error 200" {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if cur, ok := channel.Current(); !ok || cur.Title != "Error 200" {
		t.Errorf("decode failure was not published: %+v", cur)
	}
}

func TestClient_CanceledIsNotReported(t *testing.T) {
	backend := apitest.NewServer(t)
	release := backend.Hold()
	defer release()
	client, channel := newTestClient(t, backend.BaseURL())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.Catalog(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("request was not canceled")
	}
	if _, ok := channel.Current(); ok {
		t.Error("a canceled request must not publish a notification")
	}
}

func TestClient_RequestIDHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	if _, err := client.ListUsers(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(got) != 36 {
		t.Errorf("expected a UUID request ID, got %q", got)
	}
}
