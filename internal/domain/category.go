package domain

// Category agrupa habitos; las predefinidas vienen con la app, el resto las crea el usuario.
type Category struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id,omitempty"`
	Name         string `json:"name"`
	IsPredefined bool   `json:"is_predefined"`
}
