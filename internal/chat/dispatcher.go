package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/mclellan/stocktalk/internal/api"
	"github.com/mclellan/stocktalk/internal/domain"
	"github.com/mclellan/stocktalk/internal/logging"
)

// errorReply is the single synthetic message shown for any submission
// failure. Errors never change session identity.
const errorReply = "An error occurred. Please try again."

// Backend is the slice of the API client the dispatcher needs.
type Backend interface {
	ProcessQuery(ctx context.Context, req api.QueryRequest) (*api.QueryResponse, error)
	ResolveURL(path string) string
}

// Dispatcher orchestrates one query submission end-to-end: optimistic append,
// network call, response decomposition, reconciliation, gated commit, loading
// clear. Submissions are fire-and-forget; every outcome, including transport
// failure, resolves into a visible message behind the gate's floor.
type Dispatcher struct {
	store   *Store
	gate    *Gate
	backend Backend
	userID  string
	notify  func()
	log     *logging.Logger
}

// NewDispatcher creates a dispatcher submitting as userID.
func NewDispatcher(store *Store, gate *Gate, backend Backend, userID string, log *logging.Logger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		gate:    gate,
		backend: backend,
		userID:  userID,
		log:     log.Sub("dispatch"),
	}
}

// SetNotify registers a callback invoked after every committed mutation, so
// a presentation layer can refresh. May be called from arbitrary goroutines.
func (d *Dispatcher) SetNotify(fn func()) {
	d.notify = fn
}

// Submit sends rawText as a query under sessionID. Blank input is a complete
// no-op: no session mutation, no network call, no loading flag. Otherwise the
// user message appears immediately and the result (or a synthetic error
// message) lands once the network call settles and the gate's floor passes.
func (d *Dispatcher) Submit(sessionID, rawText string) {
	if strings.TrimSpace(rawText) == "" {
		return
	}

	d.store.Append(sessionID, domain.UserMessage(rawText))
	d.gate.Begin(sessionID)
	d.emit()

	d.log.Info().Str("sessionId", sessionID).Msg("query submitted")
	go d.dispatch(sessionID, rawText)
}

func (d *Dispatcher) dispatch(sessionID, rawText string) {
	resp, err := d.backend.ProcessQuery(context.Background(), api.QueryRequest{
		Query:     rawText,
		UserID:    d.userID,
		SessionID: sessionID,
	})

	if err != nil || resp.Status == "error" {
		if err != nil {
			d.log.Warn().Err(err).Str("sessionId", sessionID).Msg("query failed")
		} else {
			d.log.Warn().Str("sessionId", sessionID).Str("error", resp.Error).Msg("service reported error")
		}
		d.gate.Commit(sessionID, func() {
			d.store.Append(sessionID, domain.BotText(errorReply))
			d.store.endLoading(sessionID)
			d.emit()
		})
		return
	}

	msgs := Decompose(resp, d.backend.ResolveURL)
	serverID := resp.SessionID

	d.gate.Commit(sessionID, func() {
		target := d.store.Reconcile(serverID, sessionID)
		for _, m := range msgs {
			d.store.Append(target, m)
		}
		d.store.endLoading(sessionID)
		d.emit()
	})
}

func (d *Dispatcher) emit() {
	if d.notify != nil {
		d.notify()
	}
}

// Decompose turns a service response into result messages in fixed order:
// explanation text, then a pretty-printed rendering of the tabular results,
// then an image reference built from the chart URL. Absent fields contribute
// nothing; an absent everything yields zero messages.
func Decompose(resp *api.QueryResponse, resolve func(string) string) []domain.Message {
	var msgs []domain.Message

	if resp.Explanation != "" {
		msgs = append(msgs, domain.BotText(resp.Explanation))
	}

	if results := bytes.TrimSpace(resp.Results); len(results) > 0 &&
		!bytes.Equal(results, []byte("null")) && !bytes.Equal(results, []byte("[]")) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, results, "", "  "); err == nil {
			msgs = append(msgs, domain.BotText(buf.String()))
		} else {
			msgs = append(msgs, domain.BotText(string(results)))
		}
	}

	if resp.ChartURL != "" {
		msgs = append(msgs, domain.BotImage(resolve(resp.ChartURL)))
	}

	return msgs
}
