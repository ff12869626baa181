// Package form holds the input state behind each data-entry view and runs
// its submit protocol: validate, send through a collection store, reset.
package form

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/lalith-99/pgdesk/internal/api"
	"github.com/lalith-99/pgdesk/internal/validation"
	"go.uber.org/zap"
)

var (
	// ErrInvalid is returned by Submit when the draft fails validation.
	// The per-field messages are in State().Errors.
	ErrInvalid = errors.New("form has invalid fields")
	// ErrBusy is returned by Submit while an earlier submit is in flight.
	ErrBusy = errors.New("form is already submitting")
)

// SuccessWindow is how long the success notice stays up after a submit.
const SuccessWindow = 2 * time.Second

// State is a copy of a form at one moment.
type State struct {
	Fields      validation.Fields
	Errors      validation.Errors
	Submitting  bool
	ServerError string
	// Success is true for SuccessWindow after a successful submit.
	Success bool
	Notice  string
}

// changeHook runs under the form lock after a field has been updated.
type changeHook func(field, old string, fields validation.Fields, errs validation.Errors)

// Controller is the part every form shares.
type Controller struct {
	schema  *validation.Schema
	initial validation.Fields
	notice  string
	logger  *zap.Logger
	now     func() time.Time
	hook    changeHook

	mu          sync.Mutex
	fields      validation.Fields
	errs        validation.Errors
	submitting  bool
	serverError string
	succeededAt time.Time
}

func newController(schema *validation.Schema, initial validation.Fields, notice string, logger *zap.Logger) *Controller {
	if initial == nil {
		initial = validation.Fields{}
	}
	return &Controller{
		schema:  schema,
		initial: initial,
		notice:  notice,
		logger:  logger.With(zap.String("form", schema.Name)),
		now:     time.Now,
		fields:  initial.Clone(),
		errs:    validation.Errors{},
	}
}

// SetClock replaces the time source used for the success window.
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Controller) Schema() *validation.Schema { return c.schema }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Fields:      c.fields.Clone(),
		Errors:      maps.Clone(c.errs),
		Submitting:  c.submitting,
		ServerError: c.serverError,
	}
	if !c.succeededAt.IsZero() && c.now().Sub(c.succeededAt) < SuccessWindow {
		st.Success = true
		st.Notice = c.notice
	}
	return st
}

// Change updates one draft field and re-checks only that field. Errors on
// other fields are left as they were.
func (c *Controller) Change(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.fields[field]
	c.fields[field] = value
	if msg, ok := c.schema.ValidateField(field, value); ok {
		delete(c.errs, field)
	} else {
		c.errs[field] = msg
	}
	if c.hook != nil {
		c.hook(field, old, c.fields, c.errs)
	}
}

// Fill applies several changes in order.
func (c *Controller) Fill(values map[string]string) {
	for _, field := range c.schema.Fields() {
		if v, ok := values[field]; ok {
			c.Change(field, v)
		}
	}
}

// Reset puts the draft back to its initial values and clears all messages.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = c.initial.Clone()
	c.errs = validation.Errors{}
	c.serverError = ""
}

// submit runs the protocol shared by all forms. check adds errors that
// depend on loaded collections; send performs the remote work.
func (c *Controller) submit(
	ctx context.Context,
	check func(validation.Fields) validation.Errors,
	send func(context.Context, validation.Fields) error,
) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrBusy
	}

	draft := c.fields.Clone()
	errs := c.schema.Validate(draft)
	if errs.Valid() && check != nil {
		errs = check(draft)
	}
	c.errs = errs
	if !errs.Valid() {
		c.mu.Unlock()
		c.logger.Debug("submit blocked by validation", zap.Int("errors", len(errs)))
		return ErrInvalid
	}

	c.submitting = true
	c.serverError = ""
	c.mu.Unlock()

	err := send(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.serverError = api.Message(err)
		c.logger.Info("submit failed", zap.Error(err))
		return err
	}

	c.fields = c.initial.Clone()
	c.errs = validation.Errors{}
	c.succeededAt = c.now()
	return nil
}
