package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/lepinkainen/bookshop/internal/catalog"
	bserrors "github.com/lepinkainen/bookshop/internal/errors"
)

const maxBodyBytes = 1_048_576

type envelope map[string]any

// readIDParam pulls the :id parameter from the request.
func readIDParam(r *http.Request) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

// encodeJSON writes data as indented JSON with status.
func encodeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for k, v := range headers {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// decodeJSON reads exactly one JSON value of at most maxBodyBytes into dst,
// translating decoder errors into messages fit for a client.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var (
			syntaxError        *json.SyntaxError
			unmarshalTypeError *json.UnmarshalTypeError
			maxBytesError      *http.MaxBytesError
		)
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
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return fmt.Errorf("body contains unknown key %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// readQuery builds a catalog query from search, min, max and sort parameters.
// Omitted parameters take the DefaultQuery values.
func readQuery(r *http.Request) (catalog.Query, error) {
	qs := r.URL.Query()
	q := catalog.DefaultQuery()
	v := bserrors.NewValidationError()

	q.Text = strings.TrimSpace(qs.Get("search"))
	q.PriceMin = readFloat(qs.Get("min"), q.PriceMin, "min", v)
	q.PriceMax = readFloat(qs.Get("max"), q.PriceMax, "max", v)

	sort, err := catalog.ParseSortKey(qs.Get("sort"))
	if err != nil {
		v.Add("sort", err.Error())
	}
	q.Sort = sort

	if err := v.Err(); err != nil {
		return catalog.Query{}, err
	}
	return q, nil
}

func readFloat(s string, fallback float64, key string, v *bserrors.ValidationError) float64 {
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		v.Add(key, "must be a number")
		return fallback
	}
	return f
}
