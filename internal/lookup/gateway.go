/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package lookup resolves external-facing identifiers to internal row ids
// in batches, one query per entity category. Soft-deleted rows never
// resolve (gorm's default scope excludes them).
package lookup

import (
	"context"

	"gorm.io/gorm"

	"github.com/studiocasthq/studiocast/internal/models"
)

// Gateway batch-resolves reference identifiers against the store.
type Gateway struct {
	db *gorm.DB
}

// NewGateway creates a gateway bound to db.
func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// WithTx returns a gateway bound to the given transaction so resolution
// observes the transaction's snapshot.
func (g *Gateway) WithTx(tx *gorm.DB) *Gateway {
	return &Gateway{db: tx}
}

// pair is the minimal projection every resolver selects.
type pair struct {
	ID  string
	UID string
}

// resolve runs one uid IN (...) query against model and returns uid -> id.
// An empty uid set short-circuits without touching the store.
func (g *Gateway) resolve(ctx context.Context, model any, uids []string) (map[string]string, error) {
	out := make(map[string]string, len(uids))
	if len(uids) == 0 {
		return out, nil
	}

	var rows []pair
	if err := g.db.WithContext(ctx).
		Model(model).
		Select("id, uid").
		Where("uid IN ?", uids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.UID] = row.ID
	}
	return out, nil
}

// Clients resolves client uids.
func (g *Gateway) Clients(ctx context.Context, uids []string) (map[string]string, error) {
	return g.resolve(ctx, &models.Client{}, uids)
}

// StudioRooms resolves studio room uids.
func (g *Gateway) StudioRooms(ctx context.Context, uids []string) (map[string]string, error) {
	return g.resolve(ctx, &models.StudioRoom{}, uids)
}

// ShowTypes resolves show type uids.
func (g *Gateway) ShowTypes(ctx context.Context, uids []string) (map[string]string, error) {
	return g.resolve(ctx, &models.ShowType{}, uids)
}

// ShowStatuses resolves show status uids.
func (g *Gateway) ShowStatuses(ctx context.Context, uids []string) (map[string]string, error) {
	return g.resolve(ctx, &models.ShowStatus{}, uids)
}

// ShowStandards resolves show standard uids.
func (g *Gateway) ShowStandards(ctx context.Context, uids []string) (map[string]string, error) {
	return g.resolve(ctx, &models.ShowStandard{}, uids)
}

// MCs resolves MC uids.
func (g *Gateway) MCs(ctx context.Context, uids []string) (map[string]string, error) {
	return g.resolve(ctx, &models.Mc{}, uids)
}

// Platforms resolves platform uids.
func (g *Gateway) Platforms(ctx context.Context, uids []string) (map[string]string, error) {
	return g.resolve(ctx, &models.Platform{}, uids)
}

// ResolvedRefs bundles the per-category maps a draft's shows reference.
type ResolvedRefs struct {
	Clients       map[string]string
	StudioRooms   map[string]string
	ShowTypes     map[string]string
	ShowStatuses  map[string]string
	ShowStandards map[string]string
	MCs           map[string]string
	Platforms     map[string]string
}

// ResolveForShows collects every distinct reference uid across shows and
// resolves each category with a single query.
func (g *Gateway) ResolveForShows(ctx context.Context, shows []models.PlanShow) (*ResolvedRefs, error) {
	var (
		clients   = newUIDSet()
		rooms     = newUIDSet()
		types     = newUIDSet()
		statuses  = newUIDSet()
		standards = newUIDSet()
		mcs       = newUIDSet()
		platforms = newUIDSet()
	)

	for _, show := range shows {
		clients.add(show.ClientUID)
		rooms.add(show.StudioRoomUID)
		types.add(show.ShowTypeUID)
		statuses.add(show.ShowStatusUID)
		standards.add(show.ShowStandardUID)
		for _, mc := range show.MCs {
			mcs.add(mc.McUID)
		}
		for _, p := range show.Platforms {
			platforms.add(p.PlatformUID)
		}
	}

	refs := &ResolvedRefs{}
	var err error
	if refs.Clients, err = g.Clients(ctx, clients.values()); err != nil {
		return nil, err
	}
	if refs.StudioRooms, err = g.StudioRooms(ctx, rooms.values()); err != nil {
		return nil, err
	}
	if refs.ShowTypes, err = g.ShowTypes(ctx, types.values()); err != nil {
		return nil, err
	}
	if refs.ShowStatuses, err = g.ShowStatuses(ctx, statuses.values()); err != nil {
		return nil, err
	}
	if refs.ShowStandards, err = g.ShowStandards(ctx, standards.values()); err != nil {
		return nil, err
	}
	if refs.MCs, err = g.MCs(ctx, mcs.values()); err != nil {
		return nil, err
	}
	if refs.Platforms, err = g.Platforms(ctx, platforms.values()); err != nil {
		return nil, err
	}
	return refs, nil
}

type uidSet struct {
	seen  map[string]struct{}
	order []string
}

func newUIDSet() *uidSet {
	return &uidSet{seen: make(map[string]struct{})}
}

func (s *uidSet) add(uid string) {
	if uid == "" {
		return
	}
	if _, ok := s.seen[uid]; ok {
		return
	}
	s.seen[uid] = struct{}{}
	s.order = append(s.order, uid)
}

func (s *uidSet) values() []string {
	return s.order
}
