package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsActionAllowed(t *testing.T) {
	expired := domain.TrialStatus{Status: domain.StatusExpired, IsReadOnly: true}
	active := domain.TrialStatus{Status: domain.StatusActive}
	expiring := domain.TrialStatus{Status: domain.StatusExpiringSoon}

	for _, a := range []domain.Action{domain.ActionView, domain.ActionList, domain.ActionExport, domain.ActionDownload} {
		assert.True(t, domain.IsActionAllowed(expired, a), a)
	}

	assert.False(t, domain.IsActionAllowed(expired, domain.ActionCreate))
	assert.False(t, domain.IsActionAllowed(expired, "archive"))
	assert.True(t, domain.IsActionAllowed(active, domain.ActionCreate))
	assert.True(t, domain.IsActionAllowed(expiring, domain.ActionDelete))
	assert.True(t, domain.IsActionAllowed(domain.TrialStatus{Status: domain.StatusConverted}, domain.ActionEdit))
}

func TestBlockedActionMessage(t *testing.T) {
	msg := domain.BlockedActionMessage()

	assert.Equal(t, "Action Not Allowed", msg.Title)
	assert.Equal(t, "Your trial has expired. Upgrade to a paid plan to create and edit content.", msg.Message)
	assert.Equal(t, "Upgrade Now", msg.ActionText)
}
