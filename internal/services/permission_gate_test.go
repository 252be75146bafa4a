package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/campus-marketplace/internal/models"
)

func TestPermissionGate(t *testing.T) {
	ctx := context.Background()

	_, err := Authenticated(ctx)
	assert.Equal(t, KindPermissionDenied, KindOf(err))
	assert.Equal(t, MsgPermissionDenied, err.Error())
	assert.True(t, IsGateError(err))

	assert.Equal(t, ctx, WithViewer(ctx, nil))

	buyer := &models.Profile{PermissionLevel: models.PermissionBuyer}
	buyer.ID = uuid.New()
	ctx = WithViewer(ctx, buyer)

	viewer, err := Authenticated(ctx)
	require.NoError(t, err)
	assert.Same(t, buyer, viewer)

	_, err = RequireLevel(ctx, models.PermissionBuyer)
	assert.NoError(t, err)

	_, err = RequireLevel(ctx, models.PermissionSeller)
	assert.Equal(t, KindPermissionDenied, KindOf(err))
}

func TestRequireOwner(t *testing.T) {
	owner := &models.Profile{}
	owner.ID = uuid.New()
	other := &models.Profile{}
	other.ID = uuid.New()
	product := &models.Product{SellerID: owner.ID}

	assert.NoError(t, RequireOwner(product, owner))

	err := RequireOwner(product, other)
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, MsgForbidden, err.Error())
	assert.False(t, IsGateError(err))
}

func TestPublicMessages(t *testing.T) {
	wrapped := fmt.Errorf("listing: %w", newError(KindConflict, "You cannot create multiple offers"))
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, "You cannot create multiple offers", PublicMessage(wrapped))

	internal := errors.New("pq: connection refused")
	assert.Equal(t, KindInternal, KindOf(internal))
	assert.Equal(t, MsgInternal, PublicMessage(internal))
	assert.Equal(t, []string{MsgInternal}, PublicMessages(internal))

	detailed := &Error{Kind: KindInvalidArgument, Message: "a; b", Details: []string{"a", "b"}}
	assert.Equal(t, []string{"a", "b"}, PublicMessages(detailed))
	assert.Equal(t, "invalid_argument", KindInvalidArgument.String())
}
