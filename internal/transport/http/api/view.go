package api

import "net/http"

// View is a template name plus the flat attribute map it is rendered with.
type View struct {
	Name       string         `json:"view"`
	Attributes map[string]any `json:"attributes"`
}

func NewView(name string) *View {
	return &View{Name: name, Attributes: map[string]any{}}
}

func (v *View) Set(key string, value any) *View {
	v.Attributes[key] = value
	return v
}

func (v *View) Get(key string) any {
	return v.Attributes[key]
}

// Render writes the view inside a success envelope. Error views included.
func Render(w http.ResponseWriter, v *View, requestID string) {
	Success(w, v, requestID)
}

// Redirect answers 302 Found with a relative location.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusFound)
}
