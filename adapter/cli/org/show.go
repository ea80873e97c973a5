package org

import (
	"fmt"
	"io"
	"time"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	onboardingDomain "github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type memberView struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type organizationView struct {
	ID                 uuid.UUID                          `json:"id"`
	Name               string                             `json:"name"`
	Slug               string                             `json:"slug"`
	OwnerUserID        uuid.UUID                          `json:"owner_user_id"`
	SubscriptionStatus string                             `json:"subscription_status"`
	SubscriptionTier   string                             `json:"subscription_tier"`
	TrialEndsAt        *time.Time                         `json:"trial_ends_at,omitempty"`
	PaymentCustomerRef string                             `json:"payment_customer_ref,omitempty"`
	Members            []memberView                       `json:"members"`
	Settings           *onboardingDomain.SettingsSnapshot `json:"settings,omitempty"`
}

var showCmd = &cobra.Command{
	Use:   "show [organization-id]",
	Short: "Show an organization, its members and settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		orgID, err := cli.OrganizationID(ctx, cmd, args)
		if err != nil {
			return err
		}

		org, err := app.Provisioner.GetOrganization(ctx, orgID)
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		members, err := app.Provisioner.Members(ctx, orgID)
		if err != nil {
			return cli.Friendly(cmd, err)
		}

		view := organizationView{
			ID:                 org.ID(),
			Name:               org.Name(),
			Slug:               org.Slug(),
			OwnerUserID:        org.OwnerUserID(),
			SubscriptionStatus: org.SubscriptionStatus(),
			SubscriptionTier:   org.SubscriptionTier(),
			TrialEndsAt:        org.TrialEndsAt(),
			PaymentCustomerRef: org.PaymentCustomerRef(),
			Members:            make([]memberView, 0, len(members)),
		}
		for _, m := range members {
			view.Members = append(view.Members, memberView{
				UserID:      m.UserID,
				DisplayName: m.DisplayName,
				Role:        m.Role,
				JoinedAt:    m.JoinedAt,
			})
		}
		if app.Settings != nil {
			if view.Settings, err = app.Settings.FindSnapshot(ctx, orgID); err != nil {
				return cli.Friendly(cmd, err)
			}
		}

		return cli.Render(cmd, view, func(w io.Writer) {
			fmt.Fprintf(w, "%s (%s)\n", view.Name, view.Slug)
			fmt.Fprintf(w, "  ID:           %s\n", view.ID)
			fmt.Fprintf(w, "  Subscription: %s / %s\n", view.SubscriptionStatus, view.SubscriptionTier)
			if view.TrialEndsAt != nil {
				fmt.Fprintf(w, "  Trial ends:   %s\n", view.TrialEndsAt.Format("2006-01-02 15:04 MST"))
			}
			if view.PaymentCustomerRef != "" {
				fmt.Fprintf(w, "  Customer:     %s\n", view.PaymentCustomerRef)
			}
			fmt.Fprintln(w, "  Members:")
			for _, m := range view.Members {
				fmt.Fprintf(w, "    %-20s %-8s %s\n", m.DisplayName, m.Role, m.UserID)
			}
			if s := view.Settings; s != nil {
				fmt.Fprintf(w, "  Currency:     %s\n", s.QuoteDefaults.Currency)
			}
		})
	},
}
