package api

import (
	"net/http"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/errors"
)

func (h *Handler) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	health := envelope{
		"status": "available",
		"system_info": map[string]string{
			"version": Version,
		},
	}
	if err := encodeJSON(w, http.StatusOK, health, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	q, err := readQuery(r)
	if err != nil {
		h.storeErrorResponse(w, r, err)
		return
	}

	books := h.store.List(q)
	if h.resolveCovers(r) {
		for i := range books {
			books[i] = h.covers.ResolveBook(r.Context(), books[i])
		}
	}

	meta := envelope{"count": len(books), "search": q.Text, "min": q.PriceMin, "max": q.PriceMax, "sort": q.Sort}
	if err := encodeJSON(w, http.StatusOK, envelope{"books": books, "metadata": meta}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}

	book, err := h.store.Get(id)
	if err != nil {
		h.storeErrorResponse(w, r, err)
		return
	}
	if h.resolveCovers(r) {
		book = h.covers.ResolveBook(r.Context(), book)
	}

	if err := encodeJSON(w, http.StatusOK, envelope{"book": book}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) createBookHandler(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.readPayload(w, r)
	if !ok {
		return
	}

	book, err := h.store.Create(r.Context(), payload)
	if err != nil {
		h.storeErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/v1/books/"+formatID(book.ID))
	if err := encodeJSON(w, http.StatusCreated, envelope{"book": book}, headers); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}

	payload, ok := h.readPayload(w, r)
	if !ok {
		return
	}

	book, err := h.store.Update(r.Context(), id, payload)
	if err != nil {
		h.storeErrorResponse(w, r, err)
		return
	}

	if err := encodeJSON(w, http.StatusOK, envelope{"book": book}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.storeErrorResponse(w, r, err)
		return
	}

	if err := encodeJSON(w, http.StatusOK, envelope{"message": "book successfully deleted"}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// readPayload decodes and validates a book form, writing the error response itself.
func (h *Handler) readPayload(w http.ResponseWriter, r *http.Request) (catalog.Payload, bool) {
	var form catalog.Form
	if err := decodeJSON(w, r, &form); err != nil {
		h.badRequestResponse(w, r, err)
		return catalog.Payload{}, false
	}

	payload, err := form.Payload()
	if err != nil {
		h.storeErrorResponse(w, r, err)
		return catalog.Payload{}, false
	}
	return payload, true
}

// storeErrorResponse maps catalog errors to status codes.
func (h *Handler) storeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if vErr, ok := errors.AsValidationError(err); ok {
		h.failedValidationResponse(w, r, vErr.Fields)
		return
	}
	if errors.IsNotFoundError(err) {
		h.notFoundResponse(w, r)
		return
	}
	h.serverErrorResponse(w, r, err)
}

func (h *Handler) resolveCovers(r *http.Request) bool {
	return h.covers != nil && r.URL.Query().Get("covers") == "resolve"
}
