package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseEntity(t *testing.T) {
	entity := domain.NewBaseEntity(epoch)

	assert.NotEqual(t, uuid.Nil, entity.ID())
	assert.Equal(t, epoch, entity.CreatedAt())
	assert.Equal(t, entity.CreatedAt(), entity.UpdatedAt())
}

func TestBaseEntity_Touch(t *testing.T) {
	entity := domain.NewBaseEntity(epoch)

	entity.Touch(epoch.Add(time.Hour))
	assert.Equal(t, epoch.Add(time.Hour), entity.UpdatedAt())
	assert.Equal(t, epoch, entity.CreatedAt())

	// never moves backwards
	entity.Touch(epoch)
	assert.Equal(t, epoch.Add(time.Hour), entity.UpdatedAt())
}

func TestRehydrateBaseEntity_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	id := uuid.New()
	entity := domain.RehydrateBaseEntity(id, epoch.In(loc), epoch.In(loc))

	assert.Equal(t, id, entity.ID())
	assert.Equal(t, time.UTC, entity.CreatedAt().Location())
}

func TestFixedClock_Advance(t *testing.T) {
	clock := &domain.FixedClock{At: epoch}
	clock.Advance(90 * time.Minute)

	assert.Equal(t, epoch.Add(90*time.Minute), clock.Now())
}
