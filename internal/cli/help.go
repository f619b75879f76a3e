package cli

import "fmt"

// CommandHelp represents the structure of help information for a specific command.
type CommandHelp struct {
	Scope     string
	Operation string
	Shortcut  string
	ShortDesc string
	LongDesc  string
	Syntax    string
	Arguments []string
	Examples  []string
}

// HandleHelp processes the help command and displays appropriate help information.
// It can show general help, scope-specific help, or operation-specific help.
func (c *CLI) HandleHelp(args []string) error {
	switch len(args) {
	case 0:
		return c.showGeneralHelp()
	case 1:
		if sc, ok := shortcuts[args[0]]; ok {
			return c.showOperationHelp(sc.Scope, sc.Operation)
		}
		return c.showScopeHelp(args[0])
	case 2:
		return c.showOperationHelp(args[0], args[1])
	default:
		return fmt.Errorf("uso: help [ámbito] [operación]")
	}
}

// showGeneralHelp displays an overview of all available commands grouped by scope.
func (c *CLI) showGeneralHelp() error {
	c.UI.Message("Sintaxis: <ámbito> <operación> [argumentos]")
	c.UI.Message("\nComandos disponibles:")

	currentScope := ""
	for _, cmd := range commandHelps {
		if cmd.Scope != currentScope {
			c.UI.Message("\n%s:", cmd.Scope)
			currentScope = cmd.Scope
		}
		c.UI.Message("  %-10s %-10s %s", cmd.Operation, cmd.Shortcut, cmd.ShortDesc)
	}
	c.UI.Message("\nUsa 'help <ámbito> <operación>' para ver el detalle de un comando.")
	return nil
}

// showScopeHelp displays help information for all commands within a specific scope.
func (c *CLI) showScopeHelp(scope string) error {
	found := false
	for _, cmd := range commandHelps {
		if cmd.Scope == scope {
			if !found {
				c.UI.Message("Comandos de %s:\n", scope)
				found = true
			}
			c.UI.Message("  %-10s %s", cmd.Operation, cmd.ShortDesc)
		}
	}
	if !found {
		return fmt.Errorf("ámbito desconocido: %s", scope)
	}
	return nil
}

// showOperationHelp displays detailed help information for a specific operation within a scope.
func (c *CLI) showOperationHelp(scope, operation string) error {
	for _, cmd := range commandHelps {
		if cmd.Scope == scope && cmd.Operation == operation {
			c.UI.Message("Comando: %s %s", scope, operation)
			c.UI.Message("Descripción: %s", cmd.LongDesc)
			c.UI.Message("Sintaxis: %s", cmd.Syntax)
			if len(cmd.Arguments) > 0 {
				c.UI.Message("Argumentos:")
				for _, arg := range cmd.Arguments {
					c.UI.Message("  %s", arg)
				}
			}
			if len(cmd.Examples) > 0 {
				c.UI.Message("Ejemplos:")
				for _, ex := range cmd.Examples {
					c.UI.Message("  %s", ex)
				}
			}
			return nil
		}
	}
	return fmt.Errorf("no hay ayuda para %s %s", scope, operation)
}

// commandHelps is a slice of CommandHelp structs containing help information for all commands.
var commandHelps = []CommandHelp{
	{
		Scope:     "user",
		Operation: "login",
		Shortcut:  "login",
		ShortDesc: "Iniciar sesión",
		LongDesc:  "Valida la cédula y la contraseña y abre el menú del rol del usuario. La contraseña se pide sin eco si no se indica.",
		Syntax:    "user login [cédula] [contraseña]",
		Arguments: []string{"cédula: número de cédula, solo dígitos", "contraseña: (opcional) se pide por teclado"},
		Examples:  []string{"login 1020304050"},
	},
	{
		Scope:     "user",
		Operation: "register",
		Shortcut:  "register",
		ShortDesc: "Crear una cuenta",
		LongDesc:  "Registra un nuevo usuario. Las contraseñas se piden por teclado y deben coincidir.",
		Syntax:    "user register [nombre] [cédula]",
		Arguments: []string{"nombre: nombre completo, entre comillas si tiene espacios", "cédula: número de cédula"},
		Examples:  []string{`register "Ana María Pérez" 1020304050`},
	},
	{
		Scope:     "user",
		Operation: "logout",
		Shortcut:  "logout",
		ShortDesc: "Cerrar sesión",
		LongDesc:  "Pide confirmación, borra la sesión guardada y vuelve al inicio de sesión.",
		Syntax:    "user logout",
	},
	{
		Scope:     "user",
		Operation: "list",
		Shortcut:  "users",
		ShortDesc: "Listar usuarios (administrador)",
		LongDesc:  "Abre la lista de usuarios registrados. Solo para administradores.",
		Syntax:    "user list",
	},
	{
		Scope:     "user",
		Operation: "show",
		ShortDesc: "Ver un usuario (administrador)",
		LongDesc:  "Consulta un usuario por su ID desde la lista de usuarios.",
		Syntax:    "user show <id>",
		Arguments: []string{"id: ID del usuario"},
		Examples:  []string{"user show 3"},
	},
	{
		Scope:     "user",
		Operation: "export",
		ShortDesc: "Exportar usuarios a JSON o XML",
		LongDesc:  "Guarda la lista de usuarios cargada, sin contraseñas. El formato sale de la extensión del archivo.",
		Syntax:    "user export <archivo>",
		Arguments: []string{"archivo: ruta terminada en .json o .xml"},
		Examples:  []string{"user export usuarios.xml"},
	},
	{
		Scope:     "survey",
		Operation: "show",
		Shortcut:  "surveys",
		ShortDesc: "Abrir la encuesta",
		LongDesc:  "Los administradores ven las preguntas registradas; los usuarios ven el formulario para responder.",
		Syntax:    "survey show",
	},
	{
		Scope:     "survey",
		Operation: "answer",
		Shortcut:  "answer",
		ShortDesc: "Responder una pregunta",
		LongDesc:  "Guarda la respuesta de una pregunta. En preguntas con opciones se puede indicar el número de la opción.",
		Syntax:    "survey answer <número> [respuesta]",
		Arguments: []string{"número: número de la pregunta", "respuesta: (opcional) se pide por teclado"},
		Examples:  []string{"answer 1 Azul", "answer 2 1"},
	},
	{
		Scope:     "survey",
		Operation: "submit",
		Shortcut:  "submit",
		ShortDesc: "Enviar la encuesta",
		LongDesc:  "Envía todas las respuestas. Si alguna falla, un nuevo envío solo repite las que fallaron.",
		Syntax:    "survey submit",
	},
	{
		Scope:     "survey",
		Operation: "export",
		ShortDesc: "Exportar preguntas a JSON o XML",
		LongDesc:  "Guarda las preguntas cargadas. El formato sale de la extensión del archivo.",
		Syntax:    "survey export <archivo>",
		Examples:  []string{"survey export preguntas.json"},
	},
	{
		Scope:     "catalog",
		Operation: "show",
		ShortDesc: "Ver el catálogo",
		LongDesc:  "Muestra las marcas y modelos con precio y disponibilidad.",
		Syntax:    "catalog show",
	},
	{
		Scope:     "catalog",
		Operation: "expand",
		Shortcut:  "expand",
		ShortDesc: "Ver el detalle de un modelo",
		LongDesc:  "Muestra características e imágenes de un modelo. Repetirlo sobre el mismo modelo lo cierra.",
		Syntax:    "catalog expand <id>",
		Arguments: []string{"id: ID del modelo, entre corchetes en el catálogo"},
		Examples:  []string{"expand 7"},
	},
	{
		Scope:     "catalog",
		Operation: "collapse",
		Shortcut:  "collapse",
		ShortDesc: "Cerrar el detalle",
		LongDesc:  "Cierra el modelo abierto.",
		Syntax:    "catalog collapse",
	},
	{
		Scope:     "catalog",
		Operation: "reload",
		ShortDesc: "Recargar el catálogo",
		LongDesc:  "Vuelve a descargar el catálogo y las imágenes de todos los modelos.",
		Syntax:    "catalog reload",
	},
	{
		Scope:     "catalog",
		Operation: "images",
		Shortcut:  "images",
		ShortDesc: "Listar todas las imágenes",
		LongDesc:  "Descarga en una sola petición las imágenes de todos los modelos.",
		Syntax:    "catalog images",
	},
	{
		Scope:     "system",
		Operation: "go",
		Shortcut:  "go",
		ShortDesc: "Ir a una ruta",
		LongDesc:  "Navega a una ruta. Las rutas desconocidas llevan al inicio y cada pantalla comprueba la sesión y el rol.",
		Syntax:    "system go <ruta>",
		Arguments: []string{"ruta: /login, /register, /admin, /admin/encuestas, /admin/usuarios, /menu, /menu/encuestas, /catalogo"},
		Examples:  []string{"go /catalogo"},
	},
	{
		Scope:     "system",
		Operation: "back",
		Shortcut:  "back",
		ShortDesc: "Volver",
		LongDesc:  "Vuelve a la pantalla anterior de la pantalla actual.",
		Syntax:    "system back",
	},
	{
		Scope:     "system",
		Operation: "retry",
		Shortcut:  "retry",
		ShortDesc: "Reintentar la carga",
		LongDesc:  "Repite la carga de datos de la pantalla actual.",
		Syntax:    "system retry",
	},
	{
		Scope:     "system",
		Operation: "menu",
		Shortcut:  "menu",
		ShortDesc: "Ir al menú",
		LongDesc:  "Vuelve al menú principal del rol del usuario.",
		Syntax:    "system menu",
	},
	{
		Scope:     "system",
		Operation: "status",
		Shortcut:  "status",
		ShortDesc: "Ver el estado",
		LongDesc:  "Muestra la pantalla actual, el usuario y el último mensaje.",
		Syntax:    "system status",
	},
	{
		Scope:     "system",
		Operation: "history",
		Shortcut:  "history",
		ShortDesc: "Ver la actividad reciente",
		LongDesc:  "Muestra la actividad guardada en este equipo: sesiones, navegación, encuestas enviadas y cargas del catálogo.",
		Syntax:    "system history [cantidad]",
		Arguments: []string{"cantidad: (opcional) número de entradas, 20 por defecto"},
		Examples:  []string{"history", "history 50"},
	},
	{
		Scope:     "system",
		Operation: "help",
		Shortcut:  "help",
		ShortDesc: "Ver la ayuda",
		LongDesc:  "Muestra la lista de comandos o el detalle de uno.",
		Syntax:    "help [ámbito] [operación]",
		Examples:  []string{"help", "help catalog", "help user login", "help login"},
	},
	{
		Scope:     "system",
		Operation: "exit",
		Shortcut:  "exit",
		ShortDesc: "Salir",
		LongDesc:  "Cierra el programa. La sesión queda guardada para la próxima vez.",
		Syntax:    "exit",
	},
}
