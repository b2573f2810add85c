package api

import (
	"os"
	"path"

	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/pjb98/nfl-backend/pkg/version"
)

// Version returns the servers version
func Version(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(path.Base(os.Args[0]) + "/" + version.Version))
}
