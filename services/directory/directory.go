package directory

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	branchRepo "serenity/database/repository/branch"
	catalogRepo "serenity/database/repository/catalog"
	reviewRepo "serenity/database/repository/review"
	workerRepo "serenity/database/repository/worker"
	"serenity/models"
	"serenity/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DirectoryService serves the public, read-only site content: branches,
// the grouped treatment catalog, therapists and published reviews.
type DirectoryService interface {
	Branches(ctx context.Context) ([]models.Branch, error)
	Branch(ctx context.Context, id string) (*models.Branch, error)
	// ServiceGroups returns the catalog grouped by treatment name with
	// duration variants sorted shortest first. branchID may be empty for
	// the whole catalog.
	ServiceGroups(ctx context.Context, branchID string) ([]models.ServiceGroup, error)
	WorkersAt(ctx context.Context, branchID string) ([]models.Worker, error)
	Reviews(ctx context.Context) ([]models.ReviewView, error)
}

// DefaultDirectoryService is the production implementation. Branch and
// catalog listings are cached in Redis; dashboard edits surface within
// CacheTTL.
type DefaultDirectoryService struct {
	BranchRepo  branchRepo.BranchRepository
	ServiceRepo catalogRepo.ServiceRepository
	WorkerRepo  workerRepo.WorkerRepository
	ReviewRepo  reviewRepo.ReviewRepository

	DepositPercent int

	// Cache may be nil, in which case every read hits the database.
	Cache    *redis.Client
	CacheTTL time.Duration
}

func (s *DefaultDirectoryService) Branches(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	if s.cacheGet(ctx, "directory:branches", &branches) {
		return branches, nil
	}
	branches, err := s.BranchRepo.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, "directory:branches", branches)
	return branches, nil
}

func (s *DefaultDirectoryService) Branch(ctx context.Context, id string) (*models.Branch, error) {
	return s.BranchRepo.GetByID(ctx, id)
}

func (s *DefaultDirectoryService) ServiceGroups(ctx context.Context, branchID string) ([]models.ServiceGroup, error) {
	key := "directory:services:" + branchID
	var groups []models.ServiceGroup
	if s.cacheGet(ctx, key, &groups) {
		return groups, nil
	}

	var (
		services []models.Service
		err      error
	)
	if branchID == "" {
		services, err = s.ServiceRepo.GetAll(ctx, false)
	} else {
		services, err = s.ServiceRepo.GetActiveByBranch(ctx, branchID)
	}
	if err != nil {
		return nil, err
	}
	groups = groupServices(services, s.DepositPercent)
	s.cacheSet(ctx, key, groups)
	return groups, nil
}

func (s *DefaultDirectoryService) WorkersAt(ctx context.Context, branchID string) ([]models.Worker, error) {
	return s.WorkerRepo.GetActiveByBranch(ctx, branchID)
}

func (s *DefaultDirectoryService) Reviews(ctx context.Context) ([]models.ReviewView, error) {
	published, err := s.ReviewRepo.GetPublished(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.ReviewView, 0, len(published))
	for i := range published {
		views = append(views, models.ReviewView{
			Review:   published[i],
			EmbedURL: published[i].EmbedURL(),
		})
	}
	return views, nil
}

func (s *DefaultDirectoryService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.Cache == nil {
		return false
	}
	raw, err := s.Cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (s *DefaultDirectoryService) cacheSet(ctx context.Context, key string, v interface{}) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, raw, s.CacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("directory cache set failed",
			zap.String("key", key), zap.Error(err))
	}
}

// groupServices bundles duration variants under their shared treatment name,
// preserving the repository's name ordering.
func groupServices(services []models.Service, depositPercent int) []models.ServiceGroup {
	byName := map[string]int{}
	var groups []models.ServiceGroup
	for _, svc := range services {
		idx, ok := byName[svc.Name]
		if !ok {
			idx = len(groups)
			byName[svc.Name] = idx
			groups = append(groups, models.ServiceGroup{Name: svc.Name})
		}
		groups[idx].Variants = append(groups[idx].Variants, models.ServiceVariant{
			Service:      svc,
			DepositMinor: svc.DepositMinor(depositPercent),
		})
	}
	for i := range groups {
		sort.Slice(groups[i].Variants, func(a, b int) bool {
			return groups[i].Variants[a].DurationMinutes < groups[i].Variants[b].DurationMinutes
		})
	}
	return groups
}
