package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"insight-web/pkg/leadform"
)

type trackedForm struct {
	form     *leadform.Form
	lastSeen time.Time
}

// LeadFormRegistry keeps one lead form per visitor and forgets forms that
// have not been touched for ttl.
type LeadFormRegistry struct {
	submitter leadform.Submitter
	logger    *zap.Logger
	ttl       time.Duration
	now       func() time.Time

	mu    sync.Mutex
	forms map[string]*trackedForm
}

func NewLeadFormRegistry(submitter leadform.Submitter, ttl time.Duration, logger *zap.Logger) *LeadFormRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadFormRegistry{
		submitter: submitter,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
		forms:     make(map[string]*trackedForm),
	}
}

// Get returns the visitor's form, creating a closed one on first use.
func (r *LeadFormRegistry) Get(visitorID string) *leadform.Form {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tf, ok := r.forms[visitorID]; ok {
		tf.lastSeen = r.now()
		return tf.form
	}

	tf := &trackedForm{
		form:     leadform.New(r.submitter, r.logger.With(zap.String("visitor", visitorID))),
		lastSeen: r.now(),
	}
	r.forms[visitorID] = tf
	r.scheduleExpiry(visitorID, tf, r.ttl)
	return tf.form
}

// Lookup returns the visitor's form without creating one.
func (r *LeadFormRegistry) Lookup(visitorID string) (*leadform.Form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tf, ok := r.forms[visitorID]
	if !ok {
		return nil, false
	}
	tf.lastSeen = r.now()
	return tf.form, true
}

func (r *LeadFormRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

func (r *LeadFormRegistry) scheduleExpiry(visitorID string, tf *trackedForm, after time.Duration) {
	time.AfterFunc(after, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.forms[visitorID] != tf {
			return
		}
		idle := r.now().Sub(tf.lastSeen)
		if idle < r.ttl {
			r.scheduleExpiry(visitorID, tf, r.ttl-idle)
			return
		}
		delete(r.forms, visitorID)
		r.logger.Debug("lead form expired", zap.String("visitor", visitorID))
	})
}
