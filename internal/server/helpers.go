package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"grantify/internal/filter"

	"github.com/go-playground/validator/v10"
)

type envelope map[string]any

const maxBodyBytes = 1_048_576

func (s *Server) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for k, v := range headers {
		w.Header()[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

var errEmptyBody = errors.New("body must not be empty")

// readFilter decodes a filter body over the defaults. An empty body yields
// the default filter.
func (s *Server) readFilter(w http.ResponseWriter, r *http.Request) (filter.Filter, map[string]string, error) {
	f := filter.Default()
	if err := s.readJSON(w, r, &f); err != nil && !errors.Is(err, errEmptyBody) {
		return filter.Filter{}, nil, err
	}

	if err := s.validate.Struct(f); err != nil {
		return filter.Filter{}, validationErrors(err), nil
	}

	return f, nil, nil
}

func validationErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = err.Error()
		return out
	}

	for _, fe := range verrs {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		switch fe.Tag() {
		case "grant_status":
			out[key] = fmt.Sprintf("unknown status %q", fe.Value())
		case "currency_code":
			out[key] = fmt.Sprintf("unsupported currency %q", fe.Value())
		case "max":
			out[key] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "gte":
			out[key] = fmt.Sprintf("must be at least %s", fe.Param())
		case "lte":
			out[key] = fmt.Sprintf("must be at most %s", fe.Param())
		case "uuid4":
			out[key] = "must be a UUID"
		default:
			out[key] = fmt.Sprintf("failed %q check", fe.Tag())
		}
	}
	return out
}
