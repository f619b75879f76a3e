package model

// Brand is a phone manufacturer with its ordered models.
type Brand struct {
	ID          int          `json:"id"`
	Name        string       `json:"nombre"`
	Description string       `json:"descripcion,omitempty"`
	Models      []PhoneModel `json:"modelos"`
}

// PhoneModel is a single catalog item. Its images are loaded separately.
type PhoneModel struct {
	ID          int       `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion,omitempty"`
	Price       float64   `json:"precio"`
	Available   bool      `json:"disponible"`
	Features    []Feature `json:"caracteristicas"`
}

// Feature is a named characteristic of a model, e.g. "Pantalla: 6.1 pulgadas".
type Feature struct {
	ID    int    `json:"id"`
	Name  string `json:"nombre"`
	Value string `json:"valor"`
}

// Image points at a stored picture of a model.
type Image struct {
	ID        int    `json:"id"`
	Path      string `json:"rutaImagen"`
	ModelID   int    `json:"modeloId"`
	ModelName string `json:"nombreModelo,omitempty"`
}
