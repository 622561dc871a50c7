package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxUploadMemory = 8 << 20

// ErrBadRequest marks payloads that could not be decoded.
var ErrBadRequest = errors.New("httpapi: bad request")

// DecodeEvent reads an event from a JSON or multipart/form-data body. The
// multipart file field is "image".
func DecodeEvent(contentType string, body []byte) (dashboard.EventInput, error) {
	var in dashboard.EventInput
	form, err := parseMultipart(contentType, body)
	if err != nil {
		return in, err
	}
	if form == nil {
		return in, decodeJSON(body, &in)
	}
	in.Title = formValue(form, "title")
	in.Date = formValue(form, "date")
	in.StartTime = formValue(form, "start_time")
	in.EndTime = formValue(form, "end_time")
	in.Location = formValue(form, "location")
	in.EventType = formValue(form, "event_type")
	in.Image, err = formFile(form, "image")
	return in, err
}

// DecodeProfile reads a profile update. The multipart file field is "photo".
func DecodeProfile(contentType string, body []byte) (dashboard.ProfileInput, error) {
	var in dashboard.ProfileInput
	form, err := parseMultipart(contentType, body)
	if err != nil {
		return in, err
	}
	if form == nil {
		return in, decodeJSON(body, &in)
	}
	in.FirstName = formValue(form, "first_name")
	in.LastName = formValue(form, "last_name")
	in.Email = formValue(form, "email")
	in.Photo, err = formFile(form, "photo")
	return in, err
}

type adminPayload struct {
	dashboard.AdminInput
	PasswordConfirmation string `json:"password_confirmation"`
}

// DecodeAdmin reads an administrator payload including password_confirmation.
func DecodeAdmin(body []byte) (dashboard.AdminInput, error) {
	var payload adminPayload
	if err := decodeJSON(body, &payload); err != nil {
		return dashboard.AdminInput{}, err
	}
	in := payload.AdminInput
	in.PasswordConfirmation = payload.PasswordConfirmation
	return in, nil
}

// DecodeJSON decodes a JSON body into v.
func DecodeJSON(body []byte, v any) error {
	return decodeJSON(body, v)
}

func decodeJSON(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: empty body", ErrBadRequest)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func parseMultipart(contentType string, body []byte) (*multipart.Form, error) {
	if contentType == "" {
		return nil, nil
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if mediaType != "multipart/form-data" {
		return nil, nil
	}
	form, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).ReadForm(maxUploadMemory)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return form, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func formFile(form *multipart.Form, key string) (*dashboard.Upload, error) {
	files := form.File[key]
	if len(files) == 0 {
		return nil, nil
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrBadRequest, key, err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrBadRequest, key, err)
	}
	return &dashboard.Upload{Filename: files[0].Filename, Content: content}, nil
}

// StatusFor maps a command error to an HTTP status code.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var validation *jsonschema.ValidationError
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrImageRequired),
		errors.Is(err, dashboard.ErrPasswordMismatch),
		errors.Is(err, dashboard.ErrPasswordRequired),
		errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrCommandNotConfigured):
		return http.StatusNotImplemented
	}
	var upstream interface{ HTTPStatus() int }
	if errors.As(err, &upstream) {
		switch status := upstream.HTTPStatus(); {
		case status == http.StatusUnauthorized, status == http.StatusForbidden, status == http.StatusNotFound:
			return status
		case status >= 400 && status < 500:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}
