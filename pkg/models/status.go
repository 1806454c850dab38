package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type DriverStatus string

const (
	DriverPending  DriverStatus = "pending"
	DriverActive   DriverStatus = "active"
	DriverInactive DriverStatus = "inactive"
)

type ApplicationStatus string

const (
	ApplicationPending    ApplicationStatus = "pending"
	ApplicationWaiting    ApplicationStatus = "waiting"
	ApplicationApproved   ApplicationStatus = "approved"
	ApplicationRejected   ApplicationStatus = "rejected"
	ApplicationReanalysis ApplicationStatus = "reanalysis"
)

type EvaluationStatus string

const (
	EvaluationPending   EvaluationStatus = "pending"
	EvaluationApproved  EvaluationStatus = "approved"
	EvaluationPublished EvaluationStatus = "published"
	EvaluationArchived  EvaluationStatus = "archived"
)

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalApproved  RentalStatus = "approved"
	RentalRejected  RentalStatus = "rejected"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial"
	PaymentOverdue PaymentStatus = "overdue"
)

var driverTransitions = map[DriverStatus][]DriverStatus{
	DriverPending:  {DriverActive, DriverInactive},
	DriverActive:   {DriverInactive},
	DriverInactive: {DriverActive},
}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:    {ApplicationWaiting, ApplicationApproved, ApplicationRejected},
	ApplicationWaiting:    {ApplicationApproved, ApplicationRejected},
	ApplicationRejected:   {ApplicationReanalysis},
	ApplicationReanalysis: {ApplicationWaiting, ApplicationApproved, ApplicationRejected},
	ApplicationApproved:   {},
}

var evaluationTransitions = map[EvaluationStatus][]EvaluationStatus{
	EvaluationPending:   {EvaluationApproved, EvaluationPublished, EvaluationArchived},
	EvaluationApproved:  {EvaluationPublished, EvaluationArchived},
	EvaluationPublished: {EvaluationArchived},
	EvaluationArchived:  {EvaluationPending},
}

var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalPending:   {RentalApproved, RentalRejected, RentalCancelled},
	RentalApproved:  {RentalActive, RentalCancelled},
	RentalActive:    {RentalCompleted},
	RentalRejected:  {},
	RentalCompleted: {},
	RentalCancelled: {},
}

// Legacy spellings still found in stored documents and old clients.
var applicationAliases = map[string]ApplicationStatus{
	"pendente":     ApplicationPending,
	"aguardar":     ApplicationWaiting,
	"em_analise":   ApplicationWaiting,
	"aprovado":     ApplicationApproved,
	"reprovado":    ApplicationRejected,
	"em reanálise": ApplicationReanalysis,
	"em reanalise": ApplicationReanalysis,
	"reanalise":    ApplicationReanalysis,
	"re-analysis":  ApplicationReanalysis,
}

var evaluationAliases = map[string]EvaluationStatus{
	"pendente":   EvaluationPending,
	"em_analise": EvaluationPending,
	"aprovado":   EvaluationApproved,
	"publicado":  EvaluationPublished,
	"arquivado":  EvaluationArchived,
	"rejected":   EvaluationArchived,
}

var driverAliases = map[string]DriverStatus{
	"pendente": DriverPending,
	"approved": DriverActive,
	"ativo":    DriverActive,
	"rejected": DriverInactive,
	"inativo":  DriverInactive,
}

func canTransition[S comparable](table map[S][]S, from, to S) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

func transitionError[S ~string](from, to S) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func (s DriverStatus) Valid() bool {
	_, ok := driverTransitions[s]
	return ok
}

func (s DriverStatus) CanTransition(to DriverStatus) bool {
	return canTransition(driverTransitions, s, to)
}

// Transition returns the target status or ErrInvalidTransition.
func (s DriverStatus) Transition(to DriverStatus) (DriverStatus, error) {
	if !s.CanTransition(to) {
		return s, transitionError(s, to)
	}
	return to, nil
}

func ParseDriverStatus(raw string) (DriverStatus, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s := DriverStatus(key); s.Valid() {
		return s, nil
	}
	if s, ok := driverAliases[key]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

func (s ApplicationStatus) Valid() bool {
	_, ok := applicationTransitions[s]
	return ok
}

func (s ApplicationStatus) CanTransition(to ApplicationStatus) bool {
	return canTransition(applicationTransitions, s, to)
}

func (s ApplicationStatus) Transition(to ApplicationStatus) (ApplicationStatus, error) {
	if !s.CanTransition(to) {
		return s, transitionError(s, to)
	}
	return to, nil
}

func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s := ApplicationStatus(key); s.Valid() {
		return s, nil
	}
	if s, ok := applicationAliases[key]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

func (s EvaluationStatus) Valid() bool {
	_, ok := evaluationTransitions[s]
	return ok
}

func (s EvaluationStatus) CanTransition(to EvaluationStatus) bool {
	return canTransition(evaluationTransitions, s, to)
}

func (s EvaluationStatus) Transition(to EvaluationStatus) (EvaluationStatus, error) {
	if !s.CanTransition(to) {
		return s, transitionError(s, to)
	}
	return to, nil
}

func ParseEvaluationStatus(raw string) (EvaluationStatus, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s := EvaluationStatus(key); s.Valid() {
		return s, nil
	}
	if s, ok := evaluationAliases[key]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

func (s RentalStatus) Valid() bool {
	_, ok := rentalTransitions[s]
	return ok
}

func (s RentalStatus) CanTransition(to RentalStatus) bool {
	return canTransition(rentalTransitions, s, to)
}

func (s RentalStatus) Transition(to RentalStatus) (RentalStatus, error) {
	if !s.CanTransition(to) {
		return s, transitionError(s, to)
	}
	return to, nil
}

func ParseRentalStatus(raw string) (RentalStatus, error) {
	s := RentalStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentPartial, PaymentOverdue:
		return true
	}
	return false
}

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}
