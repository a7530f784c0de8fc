// Audit logging for risk-gated decisions. Every assessment, approval,
// rejection, override and revision is appended as a JSONL event so reply
// decisions can be reconstructed after the fact.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Risk gate events
	AuditRiskAssessed AuditEventType = "risk_assessed"
	AuditRiskCritical AuditEventType = "risk_critical"

	// Approval events
	AuditApprovalGranted  AuditEventType = "approval_granted"
	AuditApprovalModified AuditEventType = "approval_modified"
	AuditApprovalRejected AuditEventType = "approval_rejected"
	AuditApprovalOverride AuditEventType = "approval_override"

	// Critique events
	AuditCritiqueFailed  AuditEventType = "critique_failed"
	AuditCritiqueRevised AuditEventType = "critique_revised"

	// Pipeline events
	AuditPipelineFallback AuditEventType = "pipeline_fallback"
	AuditPipelinePanic    AuditEventType = "pipeline_panic"
)

// AuditEvent is a single decision record
type AuditEvent struct {
	Timestamp int64                  `json:"ts"`
	Type      AuditEventType         `json:"type"`
	Subject   string                 `json:"subject"` // plan/assessment id
	Detail    string                 `json:"detail"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

var (
	auditMu     sync.Mutex
	auditFile   *os.File
	auditFailed bool
)

// Audit appends a decision event to the audit trail.
// No-op when debug mode is off or the trail cannot be opened.
func Audit(eventType AuditEventType, subject, detail string, fields map[string]interface{}) {
	if !IsDebugMode() {
		return
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile == nil && !auditFailed {
		if logsDir == "" {
			auditFailed = true
			return
		}
		path := filepath.Join(logsDir, fmt.Sprintf("%s_audit.jsonl", time.Now().Format("2006-01-02")))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[logging] Warning: could not open audit trail: %v\n", err)
			auditFailed = true
			return
		}
		auditFile = f
	}
	if auditFile == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UnixMilli(),
		Type:      eventType,
		Subject:   subject,
		Detail:    detail,
		Fields:    fields,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	auditFile.Write(append(data, '\n'))
}

// CloseAudit closes the audit trail file (call at shutdown)
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
	auditFailed = false
}
