/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package idgen issues and validates external-facing identifiers. Every
// entity type has a registered prefix; an identifier is the prefix, an
// underscore, and a base62 rendering of 128 random bits.
package idgen

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Kind names an entity type in the prefix registry.
type Kind string

const (
	KindSchedule     Kind = "schedule"
	KindSnapshot     Kind = "snapshot"
	KindShow         Kind = "show"
	KindClient       Kind = "client"
	KindStudio       Kind = "studio"
	KindStudioRoom   Kind = "studio_room"
	KindMc           Kind = "mc"
	KindPlatform     Kind = "platform"
	KindShowType     Kind = "show_type"
	KindShowStatus   Kind = "show_status"
	KindShowStandard Kind = "show_standard"
	KindUser         Kind = "user"
)

// prefixes is the single registry mapping entity kinds to identifier
// prefixes. Reference validation and generation both read from it.
var prefixes = map[Kind]string{
	KindSchedule:     "sch",
	KindSnapshot:     "snp",
	KindShow:         "shw",
	KindClient:       "cli",
	KindStudio:       "std",
	KindStudioRoom:   "room",
	KindMc:           "mc",
	KindPlatform:     "plf",
	KindShowType:     "sht",
	KindShowStatus:   "shs",
	KindShowStandard: "shd",
	KindUser:         "usr",
}

// suffixLen is the fixed base62 suffix length; 22 digits cover 2^128.
const suffixLen = 22

// New generates a fresh identifier for kind.
func New(kind Kind) string {
	prefix, ok := prefixes[kind]
	if !ok {
		panic(fmt.Sprintf("idgen: unregistered kind %q", kind))
	}

	u := uuid.New()
	suffix := new(big.Int).SetBytes(u[:]).Text(62)
	if pad := suffixLen - len(suffix); pad > 0 {
		suffix = strings.Repeat("0", pad) + suffix
	}
	return prefix + "_" + suffix
}

// Valid reports whether id carries the prefix registered for kind and a
// well-formed suffix.
func Valid(kind Kind, id string) bool {
	prefix, ok := prefixes[kind]
	if !ok {
		return false
	}
	suffix, found := strings.CutPrefix(id, prefix+"_")
	if !found || suffix == "" {
		return false
	}
	for _, r := range suffix {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

// KindOf resolves an identifier back to its entity kind. The second return
// is false when no registered prefix matches.
func KindOf(id string) (Kind, bool) {
	sep := strings.IndexByte(id, '_')
	if sep <= 0 {
		return "", false
	}
	prefix := id[:sep]
	for kind, p := range prefixes {
		if p == prefix {
			return kind, true
		}
	}
	return "", false
}
