package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codex-labs/create-codex-app/internal/answers"
	xlog "github.com/codex-labs/create-codex-app/internal/log"
	"github.com/codex-labs/create-codex-app/internal/platform"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RequiredIDs are the ids a saved record must contain to be reused.
var RequiredIDs = []string{"projectName", "framework", "ui", "registry"}

// Permission constants for the record and its directory.
const (
	DirPerm  os.FileMode = 0700
	FilePerm os.FileMode = 0600
)

var (
	// ErrNotFound means no record exists at the store path.
	ErrNotFound = errors.New("no saved config")
	// ErrMissingRequiredField means one of RequiredIDs is absent, null, or
	// not a non-empty string.
	ErrMissingRequiredField = errors.New("saved config is missing required fields")
)

//go:embed schema/config.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("config.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("config.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Store reads and writes one saved record.
type Store struct {
	path   string
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns a Store for the record at path.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: xlog.WithComponent("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the record location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved record, or false when there is no usable one: the
// file is missing, unreadable, not a flat JSON object, or lacks a non-empty
// value for a required id.
func (s *Store) Load() (answers.Set, bool) {
	set, err := s.Inspect()
	switch {
	case err == nil:
		return set, true
	case errors.Is(err, ErrNotFound):
		s.logger.Debug().Str(xlog.FieldPath, s.path).Msg("no saved config")
	case errors.Is(err, ErrMissingRequiredField):
		s.logger.Warn().Err(err).Str(xlog.FieldPath, s.path).Msg("saved config is incomplete, ignoring")
	default:
		s.logger.Warn().Err(err).Str(xlog.FieldPath, s.path).Msg("failed to load saved config, ignoring")
	}
	return answers.Set{}, false
}

// Inspect is Load with the reason a record is unusable. The error wraps
// ErrNotFound or ErrMissingRequiredField, or describes a read or parse failure.
func (s *Store) Inspect() (answers.Set, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return answers.Set{}, ErrNotFound
		}
		return answers.Set{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	if err := validate(data); err != nil {
		return answers.Set{}, err
	}

	var set answers.Set
	if err := json.Unmarshal(data, &set); err != nil {
		return answers.Set{}, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return set, nil
}

// Save writes the full answer set, replacing any previous record. The write
// goes through a temporary file that is synced and renamed into place, so a
// concurrent reader sees either the old record or the new one.
func (s *Store) Save(set answers.Set) error {
	if missing := missingIDs(set); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequiredField, strings.Join(missing, ", "))
	}

	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("formatting config: %w", err)
	}
	buf.WriteByte('\n')

	dir := filepath.Dir(s.path)
	if err := platform.MkdirPrivate(dir, DirPerm); err != nil {
		return fmt.Errorf("preparing config directory: %w", err)
	}

	pending, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(FilePerm))
	if err != nil {
		return fmt.Errorf("create pending config file: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			s.logger.Debug().Err(err).Msg("cleanup pending config file")
		}
	}()

	if _, err := pending.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write config data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace config file: %w", err)
	}

	s.logger.Debug().Str(xlog.FieldPath, s.path).Int("answers", set.Len()).Msg("saved config")
	return nil
}

// Clear deletes the record. It reports whether a record was removed.
func (s *Store) Clear() (bool, error) {
	err := os.Remove(s.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("removing %s: %w", s.path, err)
}

func missingIDs(set answers.Set) []string {
	var missing []string
	for _, id := range RequiredIDs {
		if set.String(id) == "" {
			missing = append(missing, id)
		}
	}
	return missing
}

// validate checks data against the record schema.
func validate(data []byte) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing saved config: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validating saved config: %w", err)
	}

	var requiredMsgs, otherMsgs []string
	collectMessages(ve, &requiredMsgs, &otherMsgs)
	if len(requiredMsgs) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequiredField, strings.Join(requiredMsgs, "; "))
	}
	if len(otherMsgs) == 0 {
		otherMsgs = append(otherMsgs, ve.Error())
	}
	return fmt.Errorf("invalid saved config: %s", strings.Join(otherMsgs, "; "))
}

// collectMessages walks the error tree and sorts leaf messages by whether
// they report a required id as absent, null, or empty.
func collectMessages(ve *jsonschema.ValidationError, required, other *[]string) {
	if len(ve.Causes) == 0 {
		if ve.ErrorKind == nil {
			return
		}
		keyword := ""
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg := ve.ErrorKind.LocalizedString(printer)
		if len(ve.InstanceLocation) > 0 {
			msg = "/" + strings.Join(ve.InstanceLocation, "/") + ": " + msg
		}
		if keyword == "required" || isRequiredID(ve.InstanceLocation) {
			*required = append(*required, msg)
		} else {
			*other = append(*other, msg)
		}
		return
	}
	for _, cause := range ve.Causes {
		collectMessages(cause, required, other)
	}
}

func isRequiredID(loc []string) bool {
	if len(loc) != 1 {
		return false
	}
	for _, id := range RequiredIDs {
		if loc[0] == id {
			return true
		}
	}
	return false
}
