package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/logic"
	"github.com/antonio-alexander/go-blog-flatfile/internal/search"
	"github.com/antonio-alexander/go-blog-flatfile/internal/store"
)

var errBadRequest = errors.New("bad request")

func codeFromPath(pathVariables map[string]string) (int32, error) {
	code := pathVariables[data.PathCode]
	i, err := strconv.ParseInt(code, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid code %q", errBadRequest, code)
	}
	return int32(i), nil
}

// intFromParams returns the integer parameter key, or defaultValue when it's
// missing.
func intFromParams(params url.Values, key string, defaultValue int) (int, error) {
	s := params.Get(key)
	if s == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, key, s)
	}
	return i, nil
}

func getCorrelationId(request *http.Request) string {
	return request.Header.Get("Correlation-Id")
}

func statusCode(err error) int {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	default:
		return http.StatusInternalServerError
	case errors.Is(err, logic.ErrEmployeeNotFound),
		errors.Is(err, store.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, logic.ErrInvalidPage),
		errors.Is(err, logic.ErrInvalidPageSize),
		errors.Is(err, logic.ErrInvalidCount),
		errors.Is(err, logic.ErrInvalidCode),
		errors.Is(err, logic.ErrInvalidEmployee),
		errors.Is(err, search.ErrUnsupportedKind),
		errors.Is(err, search.ErrUnsupportedField),
		errors.Is(err, search.ErrUnsupportedMatch),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		return http.StatusBadRequest
	}
}

func handleResponse(writer http.ResponseWriter, err error, items ...any) {
	var bytes []byte

	if err == nil {
		switch {
		default:
			bytes, err = json.Marshal(items[0])
		case len(items) <= 0 || items[0] == nil:
			writer.WriteHeader(http.StatusNoContent)
			return
		}
	}
	if err != nil {
		var e struct {
			Error string `json:"error"`
		}

		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(statusCode(err))
		e.Error = err.Error()
		bytes, err = json.Marshal(&e)
		if err != nil {
			fmt.Printf("error handling response: %s\n", err)
			return
		}
		if _, err := writer.Write(bytes); err != nil {
			fmt.Printf("error handling response: %s\n", err)
		}
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := writer.Write(bytes); err != nil {
		fmt.Printf("error handling response: %s\n", err)
	}
}
