package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/engine"
	"github.com/go-playground/validator/v10"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temporary files.
const multipartMemory = 8 << 20

// multipartOverhead allows for boundaries and form fields on top of the
// file itself.
const multipartOverhead = 1 << 20

// analyzeForm holds the optional parse overrides sent with an upload.
type analyzeForm struct {
	Format    string `validate:"omitempty,oneof=delimited structured spreadsheet"`
	Delimiter string `validate:"omitempty,len=1|eq=tab"`
}

// formError reports invalid form input.
type formError struct {
	field string
	rule  string
}

func (e *formError) Error() string {
	return fmt.Sprintf("invalid %s: must satisfy %s", strings.ToLower(e.field), e.rule)
}

func asFormError(err error) (*formError, bool) {
	var fe *formError
	ok := errors.As(err, &fe)
	return fe, ok
}

func (s *Server) validateForm(f *analyzeForm) error {
	err := s.validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &formError{field: verrs[0].Field(), rule: verrs[0].Tag()}
	}
	return err
}

// hint resolves the parse hint for fileName. ok is false when the file
// extension should decide.
func (f *analyzeForm) hint(fileName string) (engine.Hint, bool, error) {
	delim := f.Delimiter
	if delim == "tab" {
		delim = "\t"
	}

	switch {
	case f.Format != "":
		return engine.Hint{Format: engine.Format(f.Format), Delimiter: delim}, true, nil
	case delim != "":
		h, err := engine.HintForFile(fileName)
		if err != nil {
			return engine.Hint{}, false, err
		}
		if h.Format == engine.FormatDelimited {
			h.Delimiter = delim
		}
		return h, true, nil
	}
	return engine.Hint{}, false, nil
}

// upload is a parsed analyze request.
type upload struct {
	name string
	file io.ReadCloser
	form analyzeForm
}

// readUpload parses the multipart request and validates the overrides.
// The caller must close the returned file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	limit := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, fmt.Errorf("%w: request exceeds %d bytes", core.ErrFileTooLarge, tooBig.Limit)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, core.ErrNoFile
		}
		return nil, fmt.Errorf("parse form: %w", err)
	}

	form := analyzeForm{
		Format:    strings.TrimSpace(r.FormValue("format")),
		Delimiter: r.FormValue("delimiter"),
	}
	if err := s.validateForm(&form); err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, core.ErrNoFile
	}
	if err != nil {
		return nil, fmt.Errorf("read form file: %w", err)
	}
	return &upload{name: fileName(header), file: file, form: form}, nil
}

func fileName(h *multipart.FileHeader) string {
	if h == nil || h.Filename == "" {
		return "upload"
	}
	return h.Filename
}
