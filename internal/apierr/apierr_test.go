package apierr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
	"maji/local-app/internal/notify"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		failure Failure
		want    Error
	}{
		{
			name:    "no connection",
			failure: Failure{Status: 0, Err: errors.New("connection refused")},
			want:    Error{Title: ConnectionTitle, Message: ConnectionMessage},
		},
		{
			name:    "no connection ignores body",
			failure: Failure{Status: 0, Body: []byte(`{"message":"m","title":"t"}`)},
			want:    Error{Title: ConnectionTitle, Message: ConnectionMessage},
		},
		{
			name:    "message and title",
			failure: Failure{Status: 404, Body: []byte(`{"message":"m","title":"t"}`)},
			want:    Error{Title: "t", Message: "m", Status: 404},
		},
		{
			name:    "pascal case fields",
			failure: Failure{Status: 400, Body: []byte(`{"Message":"Cédula ya registrada","Title":"Registro"}`)},
			want:    Error{Title: "Registro", Message: "Cédula ya registrada", Status: 400},
		},
		{
			name:    "json string",
			failure: Failure{Status: 401, Body: []byte(`"Credenciales inválidas"`)},
			want:    Error{Title: "Error 401", Message: "Credenciales inválidas", Status: 401},
		},
		{
			name:    "plain text",
			failure: Failure{Status: 500, Body: []byte("Algo salió mal")},
			want:    Error{Title: "Error 500", Message: "Algo salió mal", Status: 500},
		},
		{
			name:    "message only",
			failure: Failure{Status: 409, Body: []byte(`{"message":"Duplicado"}`)},
			want:    Error{Title: "Error 409", Message: "Duplicado", Status: 409},
		},
		{
			name:    "title only falls back",
			failure: Failure{Status: 400, StatusText: "Bad Request", Body: []byte(`{"title":"solo"}`)},
			want:    Error{Title: "Error 400", Message: "Error del servidor: 400 Bad Request", Status: 400},
		},
		{
			name:    "empty body",
			failure: Failure{Status: 503, StatusText: "Service Unavailable"},
			want:    Error{Title: "Error 503", Message: "Error del servidor: 503 Service Unavailable", Status: 503},
		},
		{
			name:    "missing status text",
			failure: Failure{Status: 502},
			want:    Error{Title: "Error 502", Message: "Error del servidor: 502 Bad Gateway", Status: 502},
		},
		{
			name:    "empty json string",
			failure: Failure{Status: 500, StatusText: "Internal Server Error", Body: []byte(`""`)},
			want:    Error{Title: "Error 500", Message: "Error del servidor: 500 Internal Server Error", Status: 500},
		},
		{
			name:    "json array",
			failure: Failure{Status: 422, StatusText: "Unprocessable Entity", Body: []byte(`["a"]`)},
			want:    Error{Title: "Error 422", Message: "Error del servidor: 422 Unprocessable Entity", Status: 422},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.failure)
			if *got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestNormalize_StatusZeroAlwaysConnection(t *testing.T) {
	bodies := [][]byte{nil, []byte("x"), []byte(`{"message":"m"}`), []byte(`"s"`)}
	for _, body := range bodies {
		if got := Normalize(Failure{Status: 0, Body: body}); got.Title != ConnectionTitle {
			t.Errorf("body %q: title = %q", body, got.Title)
		}
	}
}

func TestNormalizer_Handle(t *testing.T) {
	channel := notify.NewChannel()
	loading := notify.NewIndicator()
	loading.Set(true)

	var seen []model.Notification
	channel.Subscribe(func(n *model.Notification) {
		if n != nil {
			seen = append(seen, *n)
		}
	})

	n := NewNormalizer(channel, loading, log.Discard())
	apiErr := n.Handle(context.Background(), Failure{Status: 404, Body: []byte(`{"message":"m","title":"t"}`)})

	if apiErr.Title != "t" || apiErr.Message != "m" {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if loading.Active() {
		t.Error("loading indicator should be cleared")
	}
	if len(seen) != 1 {
		t.Fatalf("expected one notification, got %d", len(seen))
	}
	if seen[0].Kind != model.KindError || seen[0].Title != "t" || seen[0].Message != "m" {
		t.Errorf("unexpected notification %+v", seen[0])
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("listing users: %w", &Error{Title: "t", Message: "m", Status: 500})
	apiErr, ok := As(wrapped)
	if !ok || apiErr.Status != 500 {
		t.Errorf("As() = %+v, %v", apiErr, ok)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Error("plain error should not match")
	}
}
