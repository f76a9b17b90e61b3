package models

// PostForm carries the editable fields of a post.
type PostForm struct {
	Text  string `json:"text"`
	Group *int64 `json:"group"`
}

// FormErrors maps a field name to its validation messages.
type FormErrors map[string][]string

// Add appends a message for field.
func (e FormErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// FormResponse is the create/edit page: the bound form, the group choices
// and any field errors.
type FormResponse struct {
	Form   PostForm   `json:"form"`
	Errors FormErrors `json:"errors"`
	Groups []Group    `json:"groups"`
	IsEdit bool       `json:"is_edit"`
	PostID int64      `json:"post_id,omitempty"`
}
