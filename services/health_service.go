package services

import (
	"context"
	"time"

	"github.com/iteka-youth/site-backend/logger"
	"github.com/iteka-youth/site-backend/pkg/strapi"
	"github.com/iteka-youth/site-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HealthService reports reachability of the service's dependencies: the CMS
// and, when configured, Redis.
type HealthService struct {
	cms         strapi.ClientInterface
	redisClient *redis.Client // nil when Redis is not configured
	version     string
	log         *zap.SugaredLogger
}

func NewHealthService(cms strapi.ClientInterface, redisClient *redis.Client, version string) *HealthService {
	return &HealthService{
		cms:         cms,
		redisClient: redisClient,
		version:     version,
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	cmsStatus := h.checkCMS(ctx)
	components["cms"] = cmsStatus
	if cmsStatus.Status == types.HealthStatusDown {
		overallStatus = types.HealthStatusDown
	}

	if h.redisClient != nil {
		redisStatus := h.checkRedis(ctx)
		components["redis"] = redisStatus
		// Redis only backs rate limiting and caching; losing it degrades
		// rather than downs the service.
		if redisStatus.Status == types.HealthStatusDown && overallStatus == types.HealthStatusUp {
			overallStatus = types.HealthStatusDegraded
		}
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

func (h *HealthService) checkCMS(ctx context.Context) types.HealthComponent {
	if err := h.cms.Ping(ctx); err != nil {
		h.log.Errorw("CMS health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "CMS unreachable",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
