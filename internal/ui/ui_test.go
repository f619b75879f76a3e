package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"maji/local-app/internal/catalog"
	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
	"maji/local-app/internal/survey"
)

func TestUI_Notification(t *testing.T) {
	var buf bytes.Buffer
	u := NewUI(&buf, false)

	u.Notification(&model.Notification{Kind: model.KindError, Message: "No se pudo conectar", Title: "Error de Conexión"})
	u.Notification(nil)
	u.Success("Listo")

	want := "! Error de Conexión: No se pudo conectar\n✓ Listo\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestUI_Colorize(t *testing.T) {
	var buf bytes.Buffer
	u := NewUI(&buf, true)

	u.printTemplate("a{{x}}b{{unknown}}c", map[string]Color{"{{x}}": ColorRed})
	want := "a" + string(ColorRed) + "b" + string(ColorDefault) + "c\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestUI_GetPromptString(t *testing.T) {
	u := NewUI(&bytes.Buffer{}, false)

	tests := []struct {
		user, route string
		loading     bool
		want        string
	}{
		{"", "/login", false, "/login > "},
		{"Ana", "/menu", false, "Ana @ /menu > "},
		{"Ana", "/catalogo", true, "Ana @ /catalogo … > "},
	}
	for _, tt := range tests {
		if got := u.GetPromptString(tt.user, tt.route, tt.loading); got != tt.want {
			t.Errorf("GetPromptString(%q, %q, %v) = %q, want %q", tt.user, tt.route, tt.loading, got, tt.want)
		}
	}
}

func TestUI_UserList(t *testing.T) {
	var buf bytes.Buffer
	u := NewUI(&buf, false)

	u.UserList(nil)
	if !strings.Contains(buf.String(), "No hay usuarios") {
		t.Errorf("empty list output = %q", buf.String())
	}

	buf.Reset()
	u.UserList([]model.User{
		{ID: 1, FullName: "Ana Admin", NationalID: "100", Role: model.RoleAdmin},
		{ID: 2, FullName: "Luis", NationalID: "200", Role: model.RoleUser},
	})
	out := buf.String()
	for _, s := range []string{"Ana Admin", "Administrador", "Luis", "200", "2 usuarios"} {
		if !strings.Contains(out, s) {
			t.Errorf("output is missing %q:\n%s", s, out)
		}
	}
}

func TestUI_SurveyForm(t *testing.T) {
	var buf bytes.Buffer
	u := NewUI(&buf, false)

	form := survey.NewForm([]model.Question{
		{Text: "¿Color favorito?", Options: []string{"Rojo", "Azul"}},
		{Text: "¿Edad?"},
	}, nil, 1, nil, log.Discard())
	if err := form.SetAnswer(0, "Azul"); err != nil {
		t.Fatal(err)
	}

	u.SurveyForm(form)
	out := buf.String()
	for _, s := range []string{"1. ¿Color favorito?", "2) Azul", "→ Azul", "2. ¿Edad?", "sin responder"} {
		if !strings.Contains(out, s) {
			t.Errorf("output is missing %q:\n%s", s, out)
		}
	}
}

type staticSource struct {
	brands []model.Brand
	images map[int][]model.Image
}

func (s staticSource) Catalog(ctx context.Context) ([]model.Brand, error) {
	return s.brands, nil
}

func (s staticSource) ImagesForModel(ctx context.Context, modelID int) ([]model.Image, error) {
	return s.images[modelID], nil
}

func TestUI_Catalog(t *testing.T) {
	src := staticSource{
		brands: []model.Brand{{ID: 1, Name: "Samsung", Models: []model.PhoneModel{
			{ID: 7, Name: "Galaxy S24", Price: 1499900, Available: true,
				Features: []model.Feature{{Name: "Pantalla", Value: "6.1 pulgadas"}}},
			{ID: 8, Name: "Galaxy A15", Price: 599900},
		}}},
		images: map[int][]model.Image{7: {{ID: 1, Path: "/img/s24.png", ModelID: 7}}},
	}
	loader := catalog.NewLoader(src, 2, nil, log.Discard())
	ctx := context.Background()
	if err := loader.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := loader.Toggle(ctx, 7); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	NewUI(&buf, false).Catalog(loader)
	out := buf.String()
	for _, s := range []string{"Samsung", "▸ [7] Galaxy S24", "$ 1.499.900", "Disponible", "Pantalla: 6.1 pulgadas", "/img/s24.png", "[8] Galaxy A15", "Agotado", "0 imágenes"} {
		if !strings.Contains(out, s) {
			t.Errorf("output is missing %q:\n%s", s, out)
		}
	}
}
