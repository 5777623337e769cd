package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SpaceService handles household space management
type SpaceService struct {
	spaceRepo        identity.SpaceRepository
	membershipRepo   identity.MembershipRepository
	userRepo         identity.UserRepository
	subscriptionRepo billing.SubscriptionRepository
	guard            *appbilling.FeatureGuard
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewSpaceService creates a new space service
func NewSpaceService(
	spaceRepo identity.SpaceRepository,
	membershipRepo identity.MembershipRepository,
	userRepo identity.UserRepository,
	subscriptionRepo billing.SubscriptionRepository,
	guard *appbilling.FeatureGuard,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *SpaceService {
	return &SpaceService{
		spaceRepo:        spaceRepo,
		membershipRepo:   membershipRepo,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		guard:            guard,
		eventPublisher:   eventPublisher,
		logger:           logger,
	}
}

// CreateSpace creates a household, its owner membership, and a free
// subscription in one go
func (s *SpaceService) CreateSpace(ctx context.Context, input CreateSpaceInput) (*SpaceInfo, error) {
	ownedCount, err := s.spaceRepo.CountByOwnerID(ctx, input.OwnerID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check owned spaces")
	}

	limit := s.guard.LimitForPlan(ctx, s.bestOwnedPlan(ctx, input.OwnerID), billing.FeatureMaxSpaces)
	if limit != nil && ownedCount >= int64(*limit) {
		return nil, shared.ErrPlanLimitReached
	}

	space, err := identity.NewSpace(input.Name, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if input.Timezone != "" {
		if err := space.SetTimezone(input.Timezone); err != nil {
			return nil, err
		}
	}
	if input.Currency != "" {
		if err := space.SetCurrency(input.Currency); err != nil {
			return nil, err
		}
	}

	membership, err := identity.NewMembership(space.ID, input.OwnerID, identity.MemberRoleOwner)
	if err != nil {
		return nil, err
	}

	subscription, err := billing.NewFreeSubscription(space.ID)
	if err != nil {
		return nil, err
	}

	if err := s.spaceRepo.Create(ctx, space); err != nil {
		s.logger.Error("failed to create space", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create space")
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		s.logger.Error("failed to create owner membership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create space")
	}
	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		s.logger.Error("failed to create subscription", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create space")
	}

	events := append(space.GetDomainEvents(), membership.GetDomainEvents()...)
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish space events", zap.Error(err))
	}
	space.ClearDomainEvents()
	membership.ClearDomainEvents()

	s.logger.Info("space created",
		zap.String("space_id", space.ID.String()),
		zap.String("owner_id", input.OwnerID.String()),
		zap.String("name", space.Name))

	return s.toSpaceInfo(ctx, space, true), nil
}

// GetSpace returns a space the user belongs to. The invite code is only
// included for members who can manage the space.
func (s *SpaceService) GetSpace(ctx context.Context, spaceID, userID uuid.UUID) (*SpaceInfo, error) {
	membership, err := s.membershipRepo.FindBySpaceAndUser(ctx, spaceID, userID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_A_MEMBER", "You are not a member of this space")
	}

	space, err := s.spaceRepo.FindByID(ctx, spaceID)
	if err != nil {
		return nil, shared.NewDomainError("SPACE_NOT_FOUND", "Space not found")
	}

	return s.toSpaceInfo(ctx, space, membership.CanManageMembers()), nil
}

// ListSpaces returns all spaces the user is a member of
func (s *SpaceService) ListSpaces(ctx context.Context, userID uuid.UUID) ([]SpaceRef, error) {
	memberships, err := s.membershipRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list spaces")
	}

	refs := make([]SpaceRef, 0, len(memberships))
	for _, m := range memberships {
		space, err := s.spaceRepo.FindByID(ctx, m.SpaceID)
		if err != nil {
			continue
		}
		refs = append(refs, SpaceRef{ID: space.ID, Name: space.Name, Role: m.Role})
	}
	return refs, nil
}

// UpdateSpace updates the space's descriptive fields
func (s *SpaceService) UpdateSpace(ctx context.Context, input UpdateSpaceInput) (*SpaceInfo, error) {
	membership, space, err := s.requireManager(ctx, input.SpaceID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := space.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.AvatarURL != nil {
		if err := space.SetAvatarURL(*input.AvatarURL); err != nil {
			return nil, err
		}
	}
	if input.Timezone != nil {
		if err := space.SetTimezone(*input.Timezone); err != nil {
			return nil, err
		}
	}
	if input.Currency != nil {
		if err := space.SetCurrency(*input.Currency); err != nil {
			return nil, err
		}
	}

	if err := s.spaceRepo.Update(ctx, space); err != nil {
		s.logger.Error("failed to update space", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update space")
	}

	return s.toSpaceInfo(ctx, space, membership.CanManageMembers()), nil
}

// UpdateChoreSettings replaces the space's reward tuning knobs
func (s *SpaceService) UpdateChoreSettings(ctx context.Context, input UpdateChoreSettingsInput) error {
	_, space, err := s.requireManager(ctx, input.SpaceID, input.ActorID)
	if err != nil {
		return err
	}

	if err := space.UpdateChoreSettings(input.Settings); err != nil {
		return err
	}

	if err := s.spaceRepo.Update(ctx, space); err != nil {
		s.logger.Error("failed to update chore settings", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update settings")
	}

	if err := s.eventPublisher.Publish(ctx, space.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish settings events", zap.Error(err))
	}
	space.ClearDomainEvents()

	s.logger.Info("chore settings updated",
		zap.String("space_id", input.SpaceID.String()),
		zap.Int("base_points", input.Settings.BasePoints),
		zap.Bool("penalty_enabled", input.Settings.PenaltyEnabled))

	return nil
}

// RegenerateInviteCode replaces the invite code, invalidating the old one
func (s *SpaceService) RegenerateInviteCode(ctx context.Context, spaceID, actorID uuid.UUID) (string, error) {
	_, space, err := s.requireManager(ctx, spaceID, actorID)
	if err != nil {
		return "", err
	}

	if err := space.RegenerateInviteCode(); err != nil {
		return "", err
	}
	if err := s.spaceRepo.Update(ctx, space); err != nil {
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to regenerate invite code")
	}

	s.logger.Info("invite code regenerated", zap.String("space_id", spaceID.String()))

	return space.InviteCode, nil
}

// JoinSpace adds a user to a space via its invite code
func (s *SpaceService) JoinSpace(ctx context.Context, input JoinSpaceInput) (*SpaceInfo, error) {
	space, err := s.spaceRepo.FindByInviteCode(ctx, input.InviteCode)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INVITE_CODE", "Invalid invite code")
	}
	if !space.IsActive() {
		return nil, shared.NewDomainError("SPACE_INACTIVE", "Space is not accepting new members")
	}

	if existing, err := s.membershipRepo.FindBySpaceAndUser(ctx, space.ID, input.UserID); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_MEMBER", "You are already a member of this space")
	}

	memberCount, err := s.membershipRepo.CountBySpaceID(ctx, space.ID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check member count")
	}
	if err := s.guard.CheckLimit(ctx, space.ID, billing.FeatureMaxMembers, memberCount); err != nil {
		return nil, err
	}

	membership, err := identity.NewMembership(space.ID, input.UserID, identity.MemberRoleMember)
	if err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		s.logger.Error("failed to create membership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to join space")
	}

	if err := s.eventPublisher.Publish(ctx, membership.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish member joined event", zap.Error(err))
	}
	membership.ClearDomainEvents()

	s.logger.Info("member joined space",
		zap.String("space_id", space.ID.String()),
		zap.String("user_id", input.UserID.String()))

	return s.toSpaceInfo(ctx, space, false), nil
}

// ListMembers returns all members of a space with their profiles
func (s *SpaceService) ListMembers(ctx context.Context, spaceID, userID uuid.UUID) ([]MemberInfo, error) {
	if _, err := s.membershipRepo.FindBySpaceAndUser(ctx, spaceID, userID); err != nil {
		return nil, shared.NewDomainError("NOT_A_MEMBER", "You are not a member of this space")
	}

	memberships, err := s.membershipRepo.FindBySpaceID(ctx, spaceID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list members")
	}

	userIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load member profiles")
	}
	usersByID := make(map[uuid.UUID]*identity.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	members := make([]MemberInfo, 0, len(memberships))
	for _, m := range memberships {
		info := MemberInfo{
			UserID:   m.UserID,
			Nickname: m.Nickname,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		}
		if u, ok := usersByID[m.UserID]; ok {
			info.Username = u.Username
			info.DisplayName = u.GetDisplayNameOrUsername()
			info.Avatar = u.Avatar
		}
		members = append(members, info)
	}
	return members, nil
}

// ChangeMemberRole changes another member's role
func (s *SpaceService) ChangeMemberRole(ctx context.Context, input ChangeMemberRoleInput) error {
	actor, err := s.membershipRepo.FindBySpaceAndUser(ctx, input.SpaceID, input.ActorID)
	if err != nil {
		return shared.NewDomainError("NOT_A_MEMBER", "You are not a member of this space")
	}
	if !actor.CanManageMembers() {
		return shared.ErrForbidden
	}
	if input.ActorID == input.UserID {
		return shared.NewDomainError("INVALID_TARGET", "You cannot change your own role")
	}

	target, err := s.membershipRepo.FindBySpaceAndUser(ctx, input.SpaceID, input.UserID)
	if err != nil {
		return shared.NewDomainError("MEMBER_NOT_FOUND", "Member not found")
	}

	if err := target.ChangeRole(input.Role); err != nil {
		return err
	}
	if err := s.membershipRepo.Update(ctx, target); err != nil {
		s.logger.Error("failed to update member role", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change role")
	}

	s.logger.Info("member role changed",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("user_id", input.UserID.String()),
		zap.String("role", string(input.Role)))

	return nil
}

// RemoveMember removes a member from a space. Members may remove
// themselves; removing others requires manage permission. The owner
// must transfer ownership before leaving.
func (s *SpaceService) RemoveMember(ctx context.Context, input RemoveMemberInput) error {
	actor, err := s.membershipRepo.FindBySpaceAndUser(ctx, input.SpaceID, input.ActorID)
	if err != nil {
		return shared.NewDomainError("NOT_A_MEMBER", "You are not a member of this space")
	}

	leaving := input.ActorID == input.UserID
	if !leaving && !actor.CanManageMembers() {
		return shared.ErrForbidden
	}

	target := actor
	if !leaving {
		target, err = s.membershipRepo.FindBySpaceAndUser(ctx, input.SpaceID, input.UserID)
		if err != nil {
			return shared.NewDomainError("MEMBER_NOT_FOUND", "Member not found")
		}
	}

	if target.IsOwner() {
		return shared.NewDomainError("OWNER_CANNOT_LEAVE", "Transfer ownership before leaving the space")
	}

	if err := s.membershipRepo.Delete(ctx, target.ID); err != nil {
		s.logger.Error("failed to remove member", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to remove member")
	}

	event := identity.NewMemberLeftEvent(target)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish member left event", zap.Error(err))
	}

	s.logger.Info("member removed from space",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("user_id", target.UserID.String()),
		zap.Bool("left_voluntarily", leaving))

	return nil
}

// TransferOwnership moves ownership to another member. The previous
// owner becomes an admin.
func (s *SpaceService) TransferOwnership(ctx context.Context, input TransferOwnershipInput) error {
	space, err := s.spaceRepo.FindByID(ctx, input.SpaceID)
	if err != nil {
		return shared.NewDomainError("SPACE_NOT_FOUND", "Space not found")
	}
	if space.OwnerID != input.ActorID {
		return shared.ErrForbidden
	}

	current, err := s.membershipRepo.FindBySpaceAndUser(ctx, input.SpaceID, input.ActorID)
	if err != nil {
		return shared.NewDomainError("NOT_A_MEMBER", "You are not a member of this space")
	}
	next, err := s.membershipRepo.FindBySpaceAndUser(ctx, input.SpaceID, input.NewOwnerID)
	if err != nil {
		return shared.NewDomainError("MEMBER_NOT_FOUND", "New owner must be a member of the space")
	}

	if err := space.TransferOwnership(input.NewOwnerID); err != nil {
		return err
	}
	current.DemoteToAdmin()
	next.PromoteToOwner()

	if err := s.spaceRepo.Update(ctx, space); err != nil {
		return fmt.Errorf("failed to update space: %w", err)
	}
	if err := s.membershipRepo.Update(ctx, current); err != nil {
		return fmt.Errorf("failed to update previous owner: %w", err)
	}
	if err := s.membershipRepo.Update(ctx, next); err != nil {
		return fmt.Errorf("failed to update new owner: %w", err)
	}

	s.logger.Info("space ownership transferred",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("from", input.ActorID.String()),
		zap.String("to", input.NewOwnerID.String()))

	return nil
}

// ArchiveSpace soft-deletes a space. Only the owner may archive.
func (s *SpaceService) ArchiveSpace(ctx context.Context, spaceID, actorID uuid.UUID) error {
	space, err := s.spaceRepo.FindByID(ctx, spaceID)
	if err != nil {
		return shared.NewDomainError("SPACE_NOT_FOUND", "Space not found")
	}
	if space.OwnerID != actorID {
		return shared.ErrForbidden
	}

	if err := space.Archive(); err != nil {
		return err
	}
	if err := s.spaceRepo.Update(ctx, space); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to archive space")
	}

	s.logger.Info("space archived", zap.String("space_id", spaceID.String()))

	return nil
}

func (s *SpaceService) requireManager(ctx context.Context, spaceID, actorID uuid.UUID) (*identity.Membership, *identity.Space, error) {
	membership, err := s.membershipRepo.FindBySpaceAndUser(ctx, spaceID, actorID)
	if err != nil {
		return nil, nil, shared.NewDomainError("NOT_A_MEMBER", "You are not a member of this space")
	}
	if !membership.CanManageMembers() {
		return nil, nil, shared.ErrForbidden
	}

	space, err := s.spaceRepo.FindByID(ctx, spaceID)
	if err != nil {
		return nil, nil, shared.NewDomainError("SPACE_NOT_FOUND", "Space not found")
	}
	return membership, space, nil
}

// bestOwnedPlan returns the highest plan among spaces the user owns,
// free when they own none
func (s *SpaceService) bestOwnedPlan(ctx context.Context, userID uuid.UUID) billing.Plan {
	spaces, err := s.spaceRepo.FindByUserID(ctx, userID)
	if err != nil {
		return billing.PlanFree
	}

	best := billing.PlanFree
	for _, space := range spaces {
		if space.OwnerID != userID {
			continue
		}
		if plan := s.guard.PlanFor(ctx, space.ID); planRank(plan) > planRank(best) {
			best = plan
		}
	}
	return best
}

func planRank(p billing.Plan) int {
	switch p {
	case billing.PlanPremium:
		return 2
	case billing.PlanFamily:
		return 1
	default:
		return 0
	}
}

func (s *SpaceService) toSpaceInfo(ctx context.Context, space *identity.Space, includeInvite bool) *SpaceInfo {
	count, err := s.membershipRepo.CountBySpaceID(ctx, space.ID)
	if err != nil {
		count = 0
	}

	info := &SpaceInfo{
		ID:            space.ID,
		Name:          space.Name,
		Status:        space.Status,
		OwnerID:       space.OwnerID,
		AvatarURL:     space.AvatarURL,
		Timezone:      space.Timezone,
		Currency:      space.Currency,
		ChoreSettings: space.ChoreSettings,
		MemberCount:   count,
		CreatedAt:     space.CreatedAt,
	}
	if includeInvite {
		info.InviteCode = space.InviteCode
	}
	return info
}
