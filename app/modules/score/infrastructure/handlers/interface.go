package scorehandlers

import "net/http"

// Handlers serves the admin score endpoints.
type Handlers interface {
	HandleImport(w http.ResponseWriter, r *http.Request)
	HandleUpload(w http.ResponseWriter, r *http.Request)
	HandleTemplate(w http.ResponseWriter, r *http.Request)
	HandleList(w http.ResponseWriter, r *http.Request)
	HandleGet(w http.ResponseWriter, r *http.Request)
	HandleUpdate(w http.ResponseWriter, r *http.Request)
	HandleApprove(w http.ResponseWriter, r *http.Request)
	HandleReject(w http.ResponseWriter, r *http.Request)
	HandleDelete(w http.ResponseWriter, r *http.Request)
}
