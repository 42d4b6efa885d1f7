package cache

import (
	"testing"
	"time"

	"agartha-hub/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestIdentityCache_SetAndGet(t *testing.T) {
	c := NewIdentityCache(5 * time.Minute)

	c.Set("tok-1", domain.Identity{
		SubjectID: "user-1",
		Email:     "test@example.com",
		CreatedAt: 1700000000000,
	})

	got, found := c.Get("tok-1")
	assert.True(t, found)
	assert.Equal(t, "user-1", got.SubjectID)
	assert.Equal(t, "test@example.com", got.Email)
}

func TestIdentityCache_NotFound(t *testing.T) {
	c := NewIdentityCache(5 * time.Minute)

	got, found := c.Get("nonexistent")
	assert.False(t, found)
	assert.Nil(t, got)

	got, found = c.GetStale("nonexistent")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestIdentityCache_Expiration(t *testing.T) {
	c := NewIdentityCache(100 * time.Millisecond)

	c.Set("tok-exp", domain.Identity{SubjectID: "user-1"})

	got, found := c.Get("tok-exp")
	assert.True(t, found)
	assert.Equal(t, "user-1", got.SubjectID)

	time.Sleep(150 * time.Millisecond)
	got, found = c.Get("tok-exp")
	assert.False(t, found)
	assert.Nil(t, got)

	// Expired but not yet cleaned entries stay readable for fallbacks.
	got, found = c.GetStale("tok-exp")
	assert.True(t, found)
	assert.Equal(t, "user-1", got.SubjectID)
}

func TestIdentityCache_SetRestartsTTL(t *testing.T) {
	c := NewIdentityCache(100 * time.Millisecond)

	c.Set("tok-1", domain.Identity{SubjectID: "user-1"})
	time.Sleep(60 * time.Millisecond)
	c.Set("tok-1", domain.Identity{SubjectID: "user-1"})
	time.Sleep(60 * time.Millisecond)

	_, found := c.Get("tok-1")
	assert.True(t, found)
}

func TestIdentityCache_Delete(t *testing.T) {
	c := NewIdentityCache(5 * time.Minute)

	c.Set("tok-1", domain.Identity{SubjectID: "user-1"})
	c.Delete("tok-1")

	_, found := c.Get("tok-1")
	assert.False(t, found)
	_, found = c.GetStale("tok-1")
	assert.False(t, found)
}

func TestIdentityCache_GetReturnsCopy(t *testing.T) {
	c := NewIdentityCache(5 * time.Minute)

	c.Set("tok-1", domain.Identity{SubjectID: "user-1"})

	got, _ := c.Get("tok-1")
	got.SubjectID = "mutated"

	again, _ := c.Get("tok-1")
	assert.Equal(t, "user-1", again.SubjectID)
}
