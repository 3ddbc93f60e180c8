package audit

import (
	"context"
	"time"

	id "poltem/pkg/domain"
	"poltem/pkg/requestcontext"
)

// EventCategory classifies audit events for retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers personal data and consent changes (KVKK).
	CategoryCompliance EventCategory = "compliance"
	// CategorySecurity covers failed authentications and credential changes.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from services to capture key actions. It is
// transport-agnostic so sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	AccountID id.AccountID  `json:"account_id"`
	Subject   string        `json:"subject,omitempty"`
	Action    string        `json:"action"`
	Reason    string        `json:"reason,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	ClientIP  string        `json:"client_ip,omitempty"`
	Platform  string        `json:"platform,omitempty"`
}

type AuditEvent string

const (
	// Account events
	EventRegistered             AuditEvent = "account_registered"
	EventRegistrationFailed     AuditEvent = "registration_failed"
	EventSignedIn               AuditEvent = "signed_in"
	EventSignInFailed           AuditEvent = "sign_in_failed"
	EventOTPRequested           AuditEvent = "otp_requested"
	EventOTPVerified            AuditEvent = "otp_verified"
	EventOTPFailed              AuditEvent = "otp_failed"
	EventPasswordResetRequested AuditEvent = "password_reset_requested"
	EventPasswordUpdated        AuditEvent = "password_updated"
	EventPasswordUpdateFailed   AuditEvent = "password_update_failed"
	EventSignedOut              AuditEvent = "signed_out"

	// Profile events
	EventProfileSaved   AuditEvent = "profile_saved"
	EventProfilePending AuditEvent = "profile_save_pending_permission"

	// Survey events
	EventSurveyCreated AuditEvent = "survey_created"

	// Participation events
	EventParticipationOpened       AuditEvent = "participation_opened"
	EventParticipationDeclared     AuditEvent = "participation_declared"
	EventParticipationStarted      AuditEvent = "participation_started"
	EventParticipationVerified     AuditEvent = "participation_verified"
	EventParticipationVerifyFailed AuditEvent = "participation_verify_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventRegistered:            CategoryCompliance,
	EventProfileSaved:          CategoryCompliance,
	EventProfilePending:        CategoryCompliance,
	EventParticipationDeclared: CategoryCompliance,

	EventSignInFailed:              CategorySecurity,
	EventRegistrationFailed:        CategorySecurity,
	EventPasswordUpdateFailed:      CategorySecurity,
	EventOTPFailed:                 CategorySecurity,
	EventPasswordResetRequested:    CategorySecurity,
	EventPasswordUpdated:           CategorySecurity,
	EventParticipationVerifyFailed: CategorySecurity,

	EventSignedIn:              CategoryOperations,
	EventOTPRequested:          CategoryOperations,
	EventOTPVerified:           CategoryOperations,
	EventSignedOut:             CategoryOperations,
	EventSurveyCreated:         CategoryOperations,
	EventParticipationOpened:   CategoryOperations,
	EventParticipationStarted:  CategoryOperations,
	EventParticipationVerified: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// NewEvent builds an event enriched with the request-scoped metadata on ctx
// (request id, time, client ip, platform).
func NewEvent(ctx context.Context, action AuditEvent, accountID id.AccountID, subject, reason string) Event {
	return Event{
		Category:  action.Category(),
		Timestamp: requestcontext.Now(ctx),
		AccountID: accountID,
		Subject:   subject,
		Action:    string(action),
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Platform:  requestcontext.Platform(ctx),
	}
}

// Sink receives audit events. Implementations: memory, PostgreSQL, Kafka.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a Sink that can also be queried.
type Store interface {
	Sink
	ListByAccount(ctx context.Context, accountID id.AccountID) ([]Event, error)
}
