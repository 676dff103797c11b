package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fystack/cardano-auditor/internal/audit"
	"github.com/fystack/cardano-auditor/pkg/common/logger"
)

const (
	EventTypeSummary = "audit.summary"
	EventTypeReport  = "audit.report"
)

// AuditEvent is the envelope published for every audit result.
type AuditEvent struct {
	Type      string `json:"type"`
	RunID     string `json:"run_id"`
	Address   string `json:"address"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// NATSEmitter publishes audit events to NATS subjects
// "<prefix>.summary" and "<prefix>.report".
type NATSEmitter struct {
	conn          *nats.Conn
	subjectPrefix string
}

func NewNATSEmitter(url, subjectPrefix string) (*NATSEmitter, error) {
	conn, err := nats.Connect(url, nats.Name("cardano-auditor"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	if subjectPrefix == "" {
		subjectPrefix = "auditor"
	}
	return &NATSEmitter{conn: conn, subjectPrefix: subjectPrefix}, nil
}

func (e *NATSEmitter) EmitSummary(runID, address string, s *audit.Summary) error {
	return e.publish(e.subjectPrefix+".summary", AuditEvent{
		Type:      EventTypeSummary,
		RunID:     runID,
		Address:   address,
		Data:      s,
		Timestamp: time.Now().UTC().Unix(),
	})
}

func (e *NATSEmitter) EmitReport(r *audit.Report) error {
	return e.publish(e.subjectPrefix+".report", AuditEvent{
		Type:      EventTypeReport,
		RunID:     r.RunID,
		Address:   r.Address,
		Data:      r,
		Timestamp: time.Now().UTC().Unix(),
	})
}

func (e *NATSEmitter) publish(subject string, event AuditEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := e.conn.Publish(subject, data); err != nil {
		return err
	}
	logger.Debug("published audit event", "subject", subject, "type", event.Type)
	return nil
}

func (e *NATSEmitter) Close() {
	if e.conn != nil {
		e.conn.Drain()
	}
}
