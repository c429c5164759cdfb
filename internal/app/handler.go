package app

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/smallwat3r/textdrop/internal/domain"
	"github.com/smallwat3r/textdrop/internal/utility"
)

// CodeGenerator hands out lookup codes for new texts.
type CodeGenerator interface {
	Generate() (string, error)
}

// Options tunes the share and get handlers.
type Options struct {
	TTL         time.Duration
	MaxTextSize int
}

type Handler struct {
	store    domain.TextStore
	codes    CodeGenerator
	validate *validatorv10.Validate
	ttl      time.Duration
	maxText  int
}

func NewHandler(store domain.TextStore, codes CodeGenerator, opts Options) *Handler {
	if opts.TTL <= 0 {
		opts.TTL = domain.DefaultTTL
	}
	if opts.MaxTextSize <= 0 {
		opts.MaxTextSize = domain.MaxTextSize
	}
	return &Handler{
		store:    store,
		codes:    codes,
		validate: domain.NewValidator(),
		ttl:      opts.TTL,
		maxText:  opts.MaxTextSize,
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// HandleShare stores the posted text under a fresh code. Nothing is written
// unless the text passes validation.
func (h *Handler) HandleShare(w http.ResponseWriter, r *http.Request) {
	var req domain.ShareReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			writeError(w, &domain.ValidationError{Field: "text", Msg: "text required"})
			return
		}
		utility.HttpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := domain.ValidateShare(h.validate, req, h.maxText); err != nil {
		writeError(w, err)
		return
	}

	code, err := h.codes.Generate()
	if err != nil {
		log.Printf("share: code generation failed: %v", err)
		utility.HttpError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.store.Set(r.Context(), code, req.Text, h.ttl); err != nil {
		log.Printf("share: store write failed: %v", err)
		writeError(w, err)
		return
	}

	utility.WriteJSON(w, http.StatusOK, domain.ShareRes{Code: code})
}

// HandleGet consumes the text stored under ?code=. The record is gone after
// the first successful read.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if err := domain.ValidateCode(code); err != nil {
		writeError(w, err)
		return
	}

	text, err := h.store.GetAndDelete(r.Context(), code)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("get: store read failed: %v", err)
		}
		writeError(w, err)
		return
	}

	utility.WriteJSON(w, http.StatusOK, domain.GetRes{Text: text})
}

// writeError maps the domain error taxonomy onto HTTP statuses. Store
// details never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		utility.HttpError(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, domain.ErrNotFound):
		utility.HttpError(w, http.StatusNotFound, "not found")
	default:
		utility.HttpError(w, http.StatusInternalServerError, "internal server error")
	}
}
