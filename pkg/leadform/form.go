// Package leadform holds the state of one visitor's "request a call back"
// form: field values, validation and the single in-flight submission to the
// Insight API.
package leadform

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"insight-web/pkg/models"
	"insight-web/pkg/phonemask"
	"insight-web/pkg/utils"
)

// Status is the lifecycle position of a Form.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusEditing    Status = "editing"
	StatusValidating Status = "validating"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

const minPhoneDigits = 10

// Messages shown to the visitor.
const (
	MessageInvalidName      = "Введите имя"
	MessageInvalidPhone     = "Введите корректный номер телефона"
	MessageSubmissionFailed = "Не удалось отправить заявку"
	MessageSucceeded        = "Заявка успешно отправлена, мы свяжемся с вами."
)

// Submitter delivers a validated lead. insight.Client satisfies it.
type Submitter interface {
	CreateRequest(ctx context.Context, lead models.LeadPayload) error
}

// Snapshot is a copy of the form state for rendering.
type Snapshot struct {
	Status       Status    `json:"status"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	PhoneDisplay string    `json:"phone_display"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
	Error        string    `json:"error,omitempty"`
	Success      string    `json:"success,omitempty"`
}

// Form is safe for concurrent use. At most one submission is in flight at a
// time; Submit while one is outstanding does nothing.
type Form struct {
	submitter Submitter
	logger    *zap.Logger

	mu         sync.Mutex
	status     Status
	name       string
	phoneRaw   string
	errKind    ErrorKind
	errMsg     string
	success    string
	generation uint64
}

// New returns a closed form.
func New(submitter Submitter, logger *zap.Logger) *Form {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Form{
		submitter: submitter,
		logger:    logger,
		status:    StatusIdle,
	}
}

// Open starts a fresh form, dropping anything typed before.
func (f *Form) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
	f.status = StatusEditing
}

// Close returns the form to idle and discards the entered values. A
// submission still in flight finishes but its result is ignored.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
	f.status = StatusIdle
}

func (f *Form) resetLocked() {
	f.generation++
	f.name = ""
	f.phoneRaw = ""
	f.clearMessagesLocked()
}

func (f *Form) clearMessagesLocked() {
	f.errKind = KindNone
	f.errMsg = ""
	f.success = ""
}

func (f *Form) UpdateName(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = value
	f.touchLocked()
}

// UpdatePhone stores the raw input; the display value is derived from it on
// every read.
func (f *Form) UpdatePhone(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phoneRaw = raw
	f.touchLocked()
}

func (f *Form) touchLocked() {
	switch f.status {
	case StatusFailed, StatusSucceeded:
		f.status = StatusEditing
	}
}

// Submit validates the form and, if it passes, sends the lead. Validation
// failures and delivery failures come back as *Error and leave the form open.
func (f *Form) Submit(ctx context.Context) error {
	lead, gen, proceed, err := f.beginSubmit()
	if !proceed {
		return err
	}

	sendErr := f.submitter.CreateRequest(ctx, lead)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		f.logger.Info("lead submission finished after form was closed",
			zap.String("phone_hash", utils.HashPhone(lead.Phone)),
			zap.Bool("delivered", sendErr == nil))
		return nil
	}

	if sendErr != nil {
		f.status = StatusFailed
		f.errKind = KindSubmissionFailed
		f.errMsg = MessageSubmissionFailed
		f.logger.Warn("lead submission failed",
			zap.String("phone_hash", utils.HashPhone(lead.Phone)),
			zap.Error(sendErr))
		return &Error{Kind: KindSubmissionFailed, Message: MessageSubmissionFailed, Err: sendErr}
	}

	f.status = StatusSucceeded
	f.success = MessageSucceeded
	f.name = ""
	f.phoneRaw = ""
	f.logger.Info("lead submitted", zap.String("phone_hash", utils.HashPhone(lead.Phone)))
	return nil
}

// beginSubmit runs validation under the lock and moves the form to
// submitting. proceed is false when no request must be sent.
func (f *Form) beginSubmit() (lead models.LeadPayload, gen uint64, proceed bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.status {
	case StatusSubmitting:
		return lead, 0, false, nil
	case StatusIdle:
		return lead, 0, false, ErrNotOpen
	}

	f.status = StatusValidating
	f.clearMessagesLocked()

	name := strings.TrimSpace(f.name)
	if name == "" {
		return lead, 0, false, f.rejectLocked(KindInvalidName, MessageInvalidName)
	}
	if phonemask.DigitCount(f.phoneRaw) < minPhoneDigits {
		return lead, 0, false, f.rejectLocked(KindInvalidPhone, MessageInvalidPhone)
	}

	phone := phonemask.Format(f.phoneRaw)
	if phone == "" {
		phone = f.phoneRaw
	}

	f.status = StatusSubmitting
	return models.LeadPayload{Name: name, Phone: phone}, f.generation, true, nil
}

func (f *Form) rejectLocked(kind ErrorKind, msg string) error {
	f.status = StatusEditing
	f.errKind = kind
	f.errMsg = msg
	return &Error{Kind: kind, Message: msg}
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Status:       f.status,
		Name:         f.name,
		Phone:        f.phoneRaw,
		PhoneDisplay: phonemask.Format(f.phoneRaw),
		ErrorKind:    f.errKind,
		Error:        f.errMsg,
		Success:      f.success,
	}
}
