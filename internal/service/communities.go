package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/moderation"
	"github.com/pribylovaa/go-social-platform/internal/ranking"
	"github.com/pribylovaa/go-social-platform/pkg/log"
)

const maxDescriptionLen = 500

var communityNameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)

// CommunityInput — данные нового сообщества. Settings == nil — настройки по умолчанию.
type CommunityInput struct {
	Name        string
	Description string
	Type        models.CommunityType
	IsNSFW      bool
	Rules       []models.Rule
	Settings    *models.Settings
}

func defaultSettings() models.Settings {
	return models.Settings{
		AllowedPostTypes: models.AllowAnyPosts,
		AllowImages:      true,
		AllowPolls:       true,
		AllowCrossPosts:  true,
		SuggestedSort:    string(ranking.SortHot),
	}
}

func validateCommunity(in *CommunityInput) error {
	if !communityNameRe.MatchString(in.Name) {
		return fmt.Errorf("name must be 3-21 letters, digits or underscores")
	}

	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return fmt.Errorf("description too long")
	}

	switch in.Type {
	case "":
		in.Type = models.CommunityPublic
	case models.CommunityPublic, models.CommunityPrivate, models.CommunityRestricted:
	default:
		return fmt.Errorf("unknown community type")
	}

	seen := make(map[string]struct{}, len(in.Rules))
	for i := range in.Rules {
		in.Rules[i].Text = strings.TrimSpace(in.Rules[i].Text)
		if in.Rules[i].Text == "" {
			return fmt.Errorf("empty rule")
		}
		if _, ok := seen[in.Rules[i].Text]; ok {
			return fmt.Errorf("duplicate rule")
		}
		seen[in.Rules[i].Text] = struct{}{}
	}

	if in.Settings == nil {
		st := defaultSettings()
		in.Settings = &st
		return nil
	}

	switch in.Settings.AllowedPostTypes {
	case "":
		in.Settings.AllowedPostTypes = models.AllowAnyPosts
	case models.AllowAnyPosts, models.AllowTextPosts, models.AllowLinkPosts:
	default:
		return fmt.Errorf("unknown allowed post types")
	}

	if in.Settings.SuggestedSort != "" {
		if _, err := ranking.ParseSort(in.Settings.SuggestedSort, ""); err != nil {
			return fmt.Errorf("unknown suggested sort")
		}
	}

	return nil
}

// CreateCommunity создаёт сообщество; создатель становится владельцем, модератором и участником.
func (s *Service) CreateCommunity(ctx context.Context, viewer string, in CommunityInput) (*models.Community, error) {
	const op = "service/communities/CreateCommunity"

	lg := log.From(ctx).With("op", op, "community", in.Name)

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return nil, err
	}

	if err := validateCommunity(&in); err != nil {
		lg.Warn("invalid argument: " + err.Error())
		return nil, fmt.Errorf("%s: %w: %s", op, ErrInvalidArgument, err.Error())
	}

	c := models.Community{
		Name:          in.Name,
		Owner:         user.Username,
		Description:   strings.TrimSpace(in.Description),
		Type:          in.Type,
		Moderators:    []string{user.Username},
		BannedUsers:   []models.Ban{},
		ApprovedUsers: []string{},
		Invitations:   []string{},
		IsNSFW:        in.IsNSFW,
		Rules:         in.Rules,
		Settings:      *in.Settings,
		CreatedAt:     s.now(),
	}

	if err := s.storage.CreateCommunity(ctx, c); err != nil {
		return nil, fromStorage(lg, op, "CreateCommunity", err)
	}

	owner := []models.RelationChange{
		{Community: c.Name, Username: user.Username, Relation: models.RelModerator, Op: models.RelationAdd},
		{Community: c.Name, Username: user.Username, Relation: models.RelMember, Op: models.RelationAdd},
	}
	if err := s.storage.ApplyRelations(ctx, owner); err != nil {
		return nil, fromStorage(lg, op, "ApplyRelations", err)
	}
	c.Members = 1

	lg.Info("community created", "owner", user.Username)

	return &c, nil
}

// CommunityByName возвращает сообщество. Списки банов, одобренных и приглашений видят только модераторы.
func (s *Service) CommunityByName(ctx context.Context, viewer, name string) (*models.Community, error) {
	const op = "service/communities/CommunityByName"

	lg := log.From(ctx).With("op", op, "community", name)

	user, err := s.viewer(ctx, lg, op, viewer)
	if err != nil {
		return nil, err
	}

	c, err := s.loadCommunity(ctx, lg, op, name)
	if err != nil {
		return nil, err
	}

	if user == nil || !c.IsModerator(user.Username) {
		c.BannedUsers = nil
		c.ApprovedUsers = nil
		c.Invitations = nil
	}

	return c, nil
}

// Join — вступление в сообщество.
func (s *Service) Join(ctx context.Context, viewer, name string) error {
	return s.selfRelation(ctx, "service/communities/Join", viewer, name, moderation.Join)
}

// Leave — выход из сообщества.
func (s *Service) Leave(ctx context.Context, viewer, name string) error {
	return s.selfRelation(ctx, "service/communities/Leave", viewer, name, moderation.Leave)
}

// AcceptInvitation — приглашённый принимает модераторство.
func (s *Service) AcceptInvitation(ctx context.Context, viewer, name string) error {
	return s.selfRelation(ctx, "service/moderation/AcceptInvitation", viewer, name, moderation.AcceptInvitation)
}

// RejectInvitation — отказ от приглашения в модераторы.
func (s *Service) RejectInvitation(ctx context.Context, viewer, name string) error {
	return s.selfRelation(ctx, "service/moderation/RejectInvitation", viewer, name,
		func(c *models.Community, u *models.User) ([]models.RelationChange, error) {
			return moderation.RejectInvitation(c, u.Username)
		})
}

// LeaveModeration — модератор слагает полномочия.
func (s *Service) LeaveModeration(ctx context.Context, viewer, name string) error {
	return s.selfRelation(ctx, "service/moderation/LeaveModeration", viewer, name,
		func(c *models.Community, u *models.User) ([]models.RelationChange, error) {
			return moderation.LeaveModeration(c, u.Username)
		})
}

// selfRelation — действие пользователя над собственной связью с сообществом.
func (s *Service) selfRelation(ctx context.Context, op, viewer, name string, decide func(*models.Community, *models.User) ([]models.RelationChange, error)) error {
	lg := log.From(ctx).With("op", op, "community", name)

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return err
	}

	c, err := s.loadCommunity(ctx, lg, op, name)
	if err != nil {
		return err
	}

	changes, err := decide(c, user)
	if err != nil {
		return fromDomain(lg, op, err)
	}

	return s.relate(ctx, lg, op, changes)
}

// Mute переключает заглушение сообщества в домашней ленте. Возвращает новое состояние.
func (s *Service) Mute(ctx context.Context, viewer, name string) (bool, error) {
	const op = "service/communities/Mute"

	lg := log.From(ctx).With("op", op, "community", name)

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return false, err
	}

	c, err := s.loadCommunity(ctx, lg, op, name)
	if err != nil {
		return false, err
	}

	ch, muted, err := moderation.ToggleMute(c, user)
	if err != nil {
		return false, fromDomain(lg, op, err)
	}

	if err := s.relate(ctx, lg, op, []models.RelationChange{ch}); err != nil {
		return false, err
	}

	return muted, nil
}

// relate сохраняет набор изменений связей.
func (s *Service) relate(ctx context.Context, lg *slog.Logger, op string, changes []models.RelationChange) error {
	if err := s.storage.ApplyRelations(ctx, changes); err != nil {
		return fromStorage(lg, op, "ApplyRelations", err)
	}

	return nil
}
