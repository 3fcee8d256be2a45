package pastes

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/PabloPavan/pastebox/internal/apperrors"
	"github.com/PabloPavan/pastebox/internal/telemetry"
)

type Store interface {
	Create(ctx context.Context, p *Paste) error
	GetByID(ctx context.Context, id string) (*Paste, error)
	IncrementViews(ctx context.Context, id string) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]Summary, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

const (
	recentLimit      = 10
	createMaxRetries = 3
)

type Service struct {
	Store       Store
	Cache       Cache
	CacheTTL    time.Duration
	RecentTTL   time.Duration
	IDGenerator func() string
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) Create(ctx context.Context, req CreatePasteRequest) (*Paste, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "pastes store not configured")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "content is required")
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = LanguagePlain
	}
	if !KnownLanguage(language) {
		return nil, apperrors.New(apperrors.KindInvalidInput, "unknown language")
	}

	var expiresAt *time.Time
	if req.Expiry != "" && req.Expiry != ExpiryNever {
		d, ok := req.Expiry.Duration()
		if !ok {
			return nil, apperrors.New(apperrors.KindInvalidInput, "unknown expiry")
		}
		t := s.now().Add(d)
		expiresAt = &t
	}

	var passwordHash string
	if password := strings.TrimSpace(req.Password); password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to hash password", err)
		}
		passwordHash = string(hash)
	}

	idGen := s.IDGenerator
	if idGen == nil {
		idGen = NewID
	}

	paste := &Paste{
		Title:        strings.TrimSpace(req.Title),
		Content:      content,
		Language:     language,
		IsPrivate:    req.IsPrivate,
		PasswordHash: passwordHash,
		HasPassword:  passwordHash != "",
		ExpiresAt:    expiresAt,
	}

	// The primary key backs id uniqueness; on the (improbable) collision we
	// mint a fresh id instead of failing the request.
	var lastErr error
	for attempt := 0; attempt < createMaxRetries; attempt++ {
		paste.ID = idGen()
		err := s.Store.Create(ctx, paste)
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
		if !IsUniqueViolationID(err) {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create paste", err)
		}
	}
	if lastErr != nil {
		return nil, apperrors.Wrap(apperrors.KindConflict, "paste id collision", lastErr)
	}

	if s.Cache != nil {
		_ = s.Cache.InvalidateRecent(ctx)
	}

	return paste, nil
}

// Get loads a paste, enforces expiry and the password gate, and counts the
// view. The counter bump is a single atomic statement, so concurrent viewers
// each add exactly one.
func (s *Service) Get(ctx context.Context, id, password string) (*Paste, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "pastes store not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "id is required")
	}

	paste, cached := s.lookupCache(ctx, id)
	if paste == nil {
		var err error
		paste, err = s.Store.GetByID(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				return nil, apperrors.New(apperrors.KindNotFound, "not found")
			}
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load paste", err)
		}
	}

	if paste.ExpiresAt != nil && !paste.ExpiresAt.After(s.now()) {
		if cached && s.Cache != nil {
			_ = s.Cache.DeleteByID(ctx, id)
		}
		return nil, apperrors.New(apperrors.KindNotFound, "not found")
	}

	if paste.PasswordHash != "" {
		if password == "" {
			return nil, apperrors.Wrap(apperrors.KindPasswordRequired, "password required", ErrPasswordRequired)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(paste.PasswordHash), []byte(password)); err != nil {
			return nil, apperrors.Wrap(apperrors.KindPasswordRequired, "password required", ErrPasswordRequired)
		}
	}

	count, err := s.Store.IncrementViews(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			// Deleted between read and increment (expiry sweep).
			return nil, apperrors.New(apperrors.KindNotFound, "not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to count view", err)
	}
	paste.ViewCount = count

	if !cached && s.Cache != nil && s.CacheTTL > 0 {
		_ = s.Cache.SetByID(ctx, paste, s.cacheTTLFor(paste))
	}

	return paste, nil
}

// ListRecent returns up to ten public, unexpired pastes, newest first. Store
// failures degrade to an empty list so the landing page stays up; the error
// is logged for diagnostics.
func (s *Service) ListRecent(ctx context.Context) []Summary {
	if s.Store == nil {
		return []Summary{}
	}

	if s.Cache != nil {
		if cached, ok, err := s.Cache.GetRecent(ctx); err == nil && ok {
			return cached
		}
	}

	list, err := s.Store.ListRecent(ctx, recentLimit)
	if err != nil {
		telemetry.LogError(ctx, "failed to list recent pastes",
			telemetry.LogString("error", err.Error()),
		)
		return []Summary{}
	}

	if s.Cache != nil && s.RecentTTL > 0 {
		_ = s.Cache.SetRecent(ctx, list, s.RecentTTL)
	}

	return list
}

// SweepExpired deletes pastes past their expiry. Invoked periodically from
// the entry point; fetch-time checks stay authoritative either way.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	if s.Store == nil {
		return 0, apperrors.New(apperrors.KindInternal, "pastes store not configured")
	}
	deleted, err := s.Store.DeleteExpired(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindInternal, "failed to sweep expired pastes", err)
	}
	if deleted > 0 && s.Cache != nil {
		_ = s.Cache.InvalidateRecent(ctx)
	}
	return deleted, nil
}

func (s *Service) lookupCache(ctx context.Context, id string) (*Paste, bool) {
	if s.Cache == nil {
		return nil, false
	}
	p, ok, err := s.Cache.GetByID(ctx, id)
	if err != nil || !ok {
		return nil, false
	}
	return p, true
}

// cacheTTLFor clamps the TTL so a cached entry never outlives the paste.
func (s *Service) cacheTTLFor(p *Paste) time.Duration {
	ttl := s.CacheTTL
	if p.ExpiresAt != nil {
		if remaining := p.ExpiresAt.Sub(s.now()); remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}
