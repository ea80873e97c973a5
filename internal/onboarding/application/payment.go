package application

import (
	"context"

	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	paymentApplication "github.com/felixgeelhaar/onramp/internal/payment/application"
	paymentDomain "github.com/felixgeelhaar/onramp/internal/payment/domain"
	"github.com/google/uuid"
)

// accountID is the payment account of the progress: the organization once
// provisioned, otherwise the user.
func accountID(p *domain.Progress) uuid.UUID {
	if p.OrganizationID != nil {
		return *p.OrganizationID
	}
	return p.UserID
}

// BeginPaymentSetup opens a payment form for the user and records the
// provider customer reference on the progress.
func (s *Saga) BeginPaymentSetup(ctx context.Context, userID uuid.UUID, billingEmail string) (*paymentDomain.FormSession, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	displayName := p.Answers.CompanyName
	if displayName == "" {
		displayName = p.Answers.OwnerName
	}
	session, err := s.payments.RequestSetupIntent(ctx, paymentApplication.SetupRequest{
		AccountID:    accountID(p),
		UserID:       userID,
		BillingEmail: billingEmail,
		DisplayName:  displayName,
		CustomerRef:  p.CustomerRef,
	})
	if err != nil {
		return nil, err
	}
	return session, s.recordCustomer(ctx, p, session.CustomerRef)
}

// RetryPaymentSetup replaces the user's payment form with a fresh one.
func (s *Saga) RetryPaymentSetup(ctx context.Context, userID uuid.UUID) (*paymentDomain.FormSession, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	session, err := s.payments.Retry(ctx, accountID(p))
	if err != nil {
		return nil, err
	}
	return session, s.recordCustomer(ctx, p, session.CustomerRef)
}

func (s *Saga) recordCustomer(ctx context.Context, p *domain.Progress, ref string) error {
	if ref == "" || ref == p.CustomerRef {
		return nil
	}
	p.RecordPaymentChoice(p.PaymentChoice, ref, s.clock.Now())
	return s.save(ctx, p, domain.Answers{})
}

// ConfirmPayment confirms the user's outstanding payment form. On success
// the payment choice is captured and the billing step completed. Declines
// are returned as *paymentDomain.DeclineError and leave progress
// unchanged.
func (s *Saga) ConfirmPayment(ctx context.Context, userID uuid.UUID, clientSecret, paymentMethod string) (*domain.Progress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.IsComplete() && !p.HasCompleted(domain.StepCompanySetup) {
		return nil, domain.ErrSetupIncomplete
	}
	session, ok := s.payments.Session(accountID(p))
	if !ok || session.ClientSecret != clientSecret {
		return nil, paymentDomain.ErrStaleSetupIntent
	}

	ref, err := s.payments.ConfirmSetup(ctx, clientSecret, paymentMethod)
	if err != nil {
		return nil, err
	}

	if p.IsComplete() {
		return s.attachLateCustomer(ctx, p, ref.CustomerRef)
	}

	p.RecordPaymentChoice(domain.PaymentChoiceCaptured, ref.CustomerRef, s.clock.Now())
	plan := p.Answers.SelectedPlan
	if plan == "" {
		plan = domain.DefaultPlan
	}
	return s.completeStep(ctx, p, domain.StepBilling, domain.Answers{SelectedPlan: plan})
}

// attachLateCustomer records a payment method captured after onboarding
// finished on the organization.
func (s *Saga) attachLateCustomer(ctx context.Context, p *domain.Progress, ref string) (*domain.Progress, error) {
	p.RecordPaymentChoice(domain.PaymentChoiceCaptured, ref, s.clock.Now())
	if err := s.save(ctx, p, domain.Answers{}); err != nil {
		return nil, err
	}
	if p.OrganizationID != nil {
		if _, err := s.provisioner.AttachPaymentCustomer(ctx, *p.OrganizationID, ref, p.UserID); err != nil {
			s.logger.WarnContext(ctx, "failed to attach payment customer",
				"user_id", p.UserID,
				"organization_id", *p.OrganizationID,
				"error", err,
			)
		}
	}
	return p, nil
}

// DeclinePayment records that the user chose to continue without a
// payment method and skips the billing step. It is equivalent to
// SkipStep(StepBilling).
func (s *Saga) DeclinePayment(ctx context.Context, userID uuid.UUID) (*domain.Progress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.AwaitingFinalize() {
		return s.finalize(ctx, p)
	}
	if p.IsComplete() {
		return p, nil
	}
	return s.skipStep(ctx, p, domain.StepBilling)
}
