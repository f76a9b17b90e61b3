package services

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lib/pq"
	"github.com/yatube/yatube-services/models"
)

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most curent data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// HandleErrResponse writes a JSON error body, surfacing the code of a
// *pq.Error when there is one.
func HandleErrResponse(w http.ResponseWriter, statusCode int, err error) {
	var pqErr *pq.Error
	var response models.Response

	if errors.As(err, &pqErr) {
		response = models.Response{
			Success:      0,
			ErrorCode:    pqErr.Code.Name(),
			ErrorDetails: pqErr.Message,
		}
	} else {
		response = models.Response{
			Success:      0,
			ErrorDetails: err.Error(),
		}
	}

	WriteResponse(w, statusCode, response)
}
