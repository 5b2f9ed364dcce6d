package handler

import "net/http"

// landing answers GET / so clients and load balancers can check that the
// service is up and the token is accepted.
func landing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello, world!"))
}
