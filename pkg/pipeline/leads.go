package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/seunsodimu/lag-int-sub001/pkg/logger"
	"github.com/seunsodimu/lag-int-sub001/pkg/notify"
)

// LeadPipeline pushes HubSpot contacts into NetSuite as customers.
type LeadPipeline struct {
	hubspot  HubSpotClient
	netsuite NetSuiteClient
	notifier Notifier
	log      *slog.Logger
}

func NewLeadPipeline(hubspot HubSpotClient, netsuite NetSuiteClient, notifier Notifier, log *slog.Logger) *LeadPipeline {
	return &LeadPipeline{hubspot: hubspot, netsuite: netsuite, notifier: notifier, log: log}
}

// ProcessContact fetches a HubSpot contact and creates the matching NetSuite
// customer. Contacts whose email already exists in NetSuite are treated as
// synced rather than duplicated.
func (p *LeadPipeline) ProcessContact(ctx context.Context, contactID string) error {
	runID := uuid.New().String()
	log := p.log.With(logger.Component("lead_pipeline"), logger.RunID(runID), slog.String("contact_id", contactID))

	contact, err := p.hubspot.GetContact(ctx, contactID)
	if err != nil {
		log.ErrorContext(ctx, "Contact fetch failed", logger.Error(err))
		p.notifier.LeadFailure(ctx, notify.LeadEvent{
			RunID:     runID,
			ContactID: contactID,
			Error:     fmt.Sprintf("fetching the contact from HubSpot failed: %v", err),
		})
		return fmt.Errorf("process contact %s: %w", contactID, err)
	}

	if existing, err := p.netsuite.FindCustomerByEmail(ctx, contact.Email); err == nil {
		log.InfoContext(ctx, "Contact already exists in NetSuite", slog.String("netsuite_id", existing.InternalID))
		p.notifier.LeadSuccess(ctx, notify.LeadEvent{
			RunID:      runID,
			ContactID:  contactID,
			Email:      contact.Email,
			NetSuiteID: existing.InternalID,
		})
		return nil
	}

	name := strings.TrimSpace(contact.FirstName + " " + contact.LastName)
	if contact.Company != "" {
		name = contact.Company
	}

	customerID, err := p.netsuite.CreateCustomer(ctx, Customer{Email: contact.Email, Name: name})
	if err != nil {
		log.ErrorContext(ctx, "Customer creation failed", logger.Error(err))
		p.notifier.LeadFailure(ctx, notify.LeadEvent{
			RunID:     runID,
			ContactID: contactID,
			Email:     contact.Email,
			Error:     fmt.Sprintf("creating the NetSuite customer failed: %v", err),
		})
		return fmt.Errorf("process contact %s: %w", contactID, err)
	}

	log.InfoContext(ctx, "Contact synced", slog.String("netsuite_id", customerID))
	p.notifier.LeadSuccess(ctx, notify.LeadEvent{
		RunID:      runID,
		ContactID:  contactID,
		Email:      contact.Email,
		NetSuiteID: customerID,
	})
	return nil
}
