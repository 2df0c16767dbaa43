package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

const scopeCacheTTL = 10 * time.Minute

type grantReader interface {
	ListUserGrants(ctx context.Context, email string, roleFilter []string) ([]models.GrantTriple, error)
}

type scopeCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ScopeService compiles a user's roles, ACLs and scopes into the minimal
// canonical set of entity_access permissions.
type ScopeService struct {
	grants  grantReader
	cache   scopeCache
	logger  *zap.Logger
	metrics *MetricsService
}

// NewScopeService constructs a ScopeService.
func NewScopeService(grants grantReader, cache scopeCache, logger *zap.Logger) *ScopeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScopeService{grants: grants, cache: cache, logger: logger}
}

// WithMetrics attaches the cache lookup counters.
func (s *ScopeService) WithMetrics(metrics *MetricsService) *ScopeService {
	s.metrics = metrics
	return s
}

// CompileForUser loads the user's grant closure and compiles it, serving
// from the cache when possible. The role filter bypasses the cache.
func (s *ScopeService) CompileForUser(ctx context.Context, email string, roleFilter []string) ([]string, error) {
	key := scopeCacheKey(email)
	if len(roleFilter) == 0 && s.cache != nil {
		var cached []string
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return cached, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	triples, err := s.grants.ListUserGrants(ctx, email, roleFilter)
	if err != nil {
		return nil, fmt.Errorf("load grants for %s: %w", email, err)
	}

	scopes := Compile(triples)

	if len(roleFilter) == 0 && s.cache != nil {
		if err := s.cache.Set(ctx, key, scopes, scopeCacheTTL); err != nil {
			s.logger.Warn("failed to cache compiled scopes", zap.Error(err))
		}
	}
	return scopes, nil
}

// Invalidate drops the cached scope set of one user.
func (s *ScopeService) Invalidate(ctx context.Context, email string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, scopeCacheKey(email)); err != nil {
		s.logger.Warn("failed to invalidate scope cache", zap.String("email", email), zap.Error(err))
	}
}

// InvalidateAll drops every cached scope set. Called after grant
// mutations, which may affect any user.
func (s *ScopeService) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "scopes:*"); err != nil {
		s.logger.Warn("failed to invalidate scope cache", zap.Error(err))
	}
}

func scopeCacheKey(email string) string { return "scopes:" + email }

// Compile reduces grant triples to the canonical scope-name set:
// the full wildcard absorbs everything, an entity-wide wildcard absorbs
// the entity's finer accesses, and accesses granted on the wildcard
// entity are removed from every concrete entity.
func Compile(triples []models.GrantTriple) []string {
	byEntity := make(map[string]map[string]struct{})
	for _, t := range triples {
		if t.Entity == "" || t.Access == "" {
			continue
		}
		accesses, ok := byEntity[t.Entity]
		if !ok {
			accesses = make(map[string]struct{})
			byEntity[t.Entity] = accesses
		}
		accesses[t.Access] = struct{}{}
	}

	if global, ok := byEntity[models.Wildcard]; ok {
		if _, ok := global[models.Wildcard]; ok {
			return []string{models.ScopePair{Entity: models.Wildcard, Access: models.Wildcard}.Name()}
		}
	}

	for entity, accesses := range byEntity {
		if _, ok := accesses[models.Wildcard]; ok {
			byEntity[entity] = map[string]struct{}{models.Wildcard: {}}
		}
	}

	for access := range byEntity[models.Wildcard] {
		for entity, accesses := range byEntity {
			if entity == models.Wildcard {
				continue
			}
			delete(accesses, access)
			if len(accesses) == 0 {
				delete(byEntity, entity)
			}
		}
	}

	var names []string
	for entity, accesses := range byEntity {
		for access := range accesses {
			names = append(names, models.ScopePair{Entity: entity, Access: access}.Name())
		}
	}
	sort.Strings(names)
	return names
}

// CoversAll reports whether every required endpoint scope is covered by
// some user scope.
func CoversAll(userScopes, requiredScopes []string) bool {
	for _, required := range requiredScopes {
		end, ok := models.ParseScopeName(required)
		if !ok {
			return false
		}
		covered := false
		for _, granted := range userScopes {
			pair, ok := models.ParseScopeName(granted)
			if !ok {
				continue
			}
			if pair.Covers(end) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}
