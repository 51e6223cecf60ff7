package http

import (
	"encoding/json"
	"net/http"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/beldeveloper/go-errors-context"
	"github.com/julienschmidt/httprouter"
)

// NewHandler creates a new instance of the REST API handler.
func NewHandler(assemblySvc app.AssemblySvc, accessKey app.ApiAccessKey) Handler {
	return Handler{
		assemblySvc: assemblySvc,
		accessKey:   string(accessKey),
	}
}

// Handler handles the REST API requests.
type Handler struct {
	assemblySvc app.AssemblySvc
	accessKey   string
}

// Assemblies returns the assemblies of the calling project.
func (h Handler) Assemblies(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.assemblySvc.List(r.Context(), callingContext(r))
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// Assembly returns the one assembly with the specific UUID.
func (h Handler) Assembly(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.assemblySvc.Find(r.Context(), callingContext(r), ps.ByName("id"))
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// AddAssembly creates a new assembly and dispatches its builds.
func (h Handler) AddAssembly(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	var f app.FormAddAssembly
	err = json.NewDecoder(r.Body).Decode(&f)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.assemblySvc.Create(r.Context(), callingContext(r), f)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// UpdateAssembly patches the assembly metadata.
func (h Handler) UpdateAssembly(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	var f app.FormUpdateAssembly
	err = json.NewDecoder(r.Body).Decode(&f)
	if err != nil {
		apiError(w, err)
		return
	}
	f.UUID = ps.ByName("id")
	res, err := h.assemblySvc.Update(r.Context(), callingContext(r), f)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// DeleteAssembly requests the assembly teardown.
func (h Handler) DeleteAssembly(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	err = h.assemblySvc.Delete(r.Context(), callingContext(r), ps.ByName("id"))
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, nil)
}

// Trigger runs the workflow of the assembly matching the trigger id.
// No access key and no calling context here: webhooks carry neither, and the
// authority is reconstructed from the delegated trust stored on the assembly.
func (h Handler) Trigger(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.assemblySvc.TriggerWorkflow(r.Context(), ps.ByName("id"))
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, nil)
}

func (h Handler) validateKey(r *http.Request) error {
	if r.URL.Query().Get("accessKey") != h.accessKey {
		return errors.WrapContext(errtype.ErrUnauthorized, errors.Context{})
	}
	return nil
}

func callingContext(r *http.Request) app.Context {
	return app.Context{
		UserID:    r.Header.Get("X-User-Id"),
		ProjectID: r.Header.Get("X-Project-Id"),
	}
}
